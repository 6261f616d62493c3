package strategy

import (
	"math"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
)

// PivotSRLBreakout computes classic floor-trader pivots from the previous
// day and trades intraday breakouts beyond R1/S1 on the 5m timeframe.
type PivotSRLBreakout struct {
	rr float64
}

// NewPivotSRLBreakout creates the module
func NewPivotSRLBreakout() *PivotSRLBreakout {
	return &PivotSRLBreakout{rr: 2.0}
}

func (s *PivotSRLBreakout) Name() string                 { return "pivot_srl_breakout" }
func (s *PivotSRLBreakout) Category() contracts.Category { return contracts.CategoryIntraday }
func (s *PivotSRLBreakout) RequiredIndicators() []string { return nil }

// pivotLevels holds the standard pivot ladder from one day's OHLC
type pivotLevels struct {
	Pivot, R1, S1, R2, S2 float64
}

// computePivots derives the ladder from the previous completed day
func computePivots(day contracts.Bar) pivotLevels {
	pivot := (day.High + day.Low + day.Close) / 3.0
	return pivotLevels{
		Pivot: pivot,
		R1:    2*pivot - day.Low,
		S1:    2*pivot - day.High,
		R2:    pivot + (day.High - day.Low),
		S2:    pivot - (day.High - day.Low),
	}
}

// GenerateSignal fires when the latest intraday close clears R1 above the
// pivot or S1 below it.
func (s *PivotSRLBreakout) GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error) {
	daily, ok := view.Get("1d")
	if !ok || daily.Len() < 2 {
		return nil, nil
	}
	intraday, ok := view.Get("5m")
	if !ok {
		return nil, nil
	}

	levels := computePivots(daily.Bars[daily.Len()-2])

	last, _ := intraday.Last()
	c := last.Close

	var side contracts.Side
	switch {
	case c > levels.Pivot && c > levels.R1:
		side = contracts.SideBuy
	case c < levels.Pivot && c < levels.S1:
		side = contracts.SideSell
	default:
		return nil, nil
	}

	// Risk sizing off half the R1-S1 range.
	srRange := levels.R1 - levels.S1
	slBuffer := math.Abs(srRange) * 0.5
	if slBuffer <= 0 {
		return nil, nil
	}

	entry := c
	var stop, target float64
	if side == contracts.SideBuy {
		stop = entry - slBuffer
		target = entry + s.rr*(entry-stop)
	} else {
		stop = entry + slBuffer
		target = entry - s.rr*(stop-entry)
	}

	distFromPivot := math.Abs(entry - levels.Pivot)
	confidence := clamp(0.5+0.5*math.Min(distFromPivot/(math.Abs(srRange)+1e-9), 1.0), 0.0, 1.0)

	return &contracts.Signal{
		Symbol:       symbol,
		Side:         side,
		Entry:        entry,
		StopLoss:     stop,
		Target:       target,
		Confidence:   confidence,
		Strategy:     s.Name(),
		StrategyType: s.Category(),
		Timestamp:    time.Now().UTC(),
	}, nil
}
