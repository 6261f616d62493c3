package strategy

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/marketdata"
)

// ORBTrendFilter trades breakouts of the opening range (the first 15
// minutes of the session) on 5m bars, gated by an EMA20/EMA50 trend
// filter and scored by volume expansion.
type ORBTrendFilter struct {
	loc       *time.Location
	openHour  int
	openMin   int
	orMinutes int
	rr        float64
}

// NewORBTrendFilter creates the module for the given market session
func NewORBTrendFilter(loc *time.Location, openHHMM string) *ORBTrendFilter {
	h, m := 9, 15
	if parts := strings.SplitN(openHHMM, ":", 2); len(parts) == 2 {
		if ph, err := strconv.Atoi(parts[0]); err == nil {
			if pm, err := strconv.Atoi(parts[1]); err == nil {
				h, m = ph, pm
			}
		}
	}

	return &ORBTrendFilter{
		loc:       loc,
		openHour:  h,
		openMin:   m,
		orMinutes: 15,
		rr:        2.0,
	}
}

func (s *ORBTrendFilter) Name() string                 { return "orb_trend_filter" }
func (s *ORBTrendFilter) Category() contracts.Category { return contracts.CategoryIntraday }

func (s *ORBTrendFilter) RequiredIndicators() []string {
	return []string{marketdata.IndicatorEMA20, marketdata.IndicatorEMA50}
}

// GenerateSignal looks at the current session only: bars inside the
// opening range set the band, the latest post-range bar tests the breakout.
func (s *ORBTrendFilter) GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error) {
	ds, ok := view.Get("5m")
	if !ok || ds.Len() < 10 {
		return nil, nil
	}

	last, _ := ds.Last()
	sessionDate := last.Timestamp.In(s.loc).Format("2006-01-02")

	openMinutes := s.openHour*60 + s.openMin
	orEnd := openMinutes + s.orMinutes

	var orHigh, orLow, orVolSum float64
	var orCount int
	orLow = math.MaxFloat64
	postOR := false

	for _, bar := range ds.Bars {
		local := bar.Timestamp.In(s.loc)
		if local.Format("2006-01-02") != sessionDate {
			continue
		}
		minutes := local.Hour()*60 + local.Minute()

		switch {
		case minutes >= openMinutes && minutes < orEnd:
			orHigh = math.Max(orHigh, bar.High)
			orLow = math.Min(orLow, bar.Low)
			orVolSum += bar.Volume
			orCount++
		case minutes >= orEnd:
			postOR = true
		}
	}
	if orCount == 0 || !postOR {
		return nil, nil
	}

	curr := ds.Len() - 1
	ema20, ok1 := indicatorAt(ds, marketdata.IndicatorEMA20, curr)
	ema50, ok2 := indicatorAt(ds, marketdata.IndicatorEMA50, curr)
	if !ok1 || !ok2 {
		return nil, nil
	}

	close := last.Close
	longBreak := close > orHigh
	shortBreak := close < orLow

	// Trend filter: only trade breakouts aligned with the EMA stack.
	if longBreak && ema20 <= ema50 {
		return nil, nil
	}
	if shortBreak && ema20 >= ema50 {
		return nil, nil
	}
	if !longBreak && !shortBreak {
		return nil, nil
	}

	var side contracts.Side
	var risk, stop, target float64
	entry := close

	if longBreak {
		side = contracts.SideBuy
		risk = entry - orLow
		stop = orLow
		target = entry + s.rr*risk
	} else {
		side = contracts.SideSell
		risk = orHigh - entry
		stop = orHigh
		target = entry - s.rr*risk
	}
	if risk <= 0 {
		return nil, nil
	}

	avgVolOR := orVolSum / float64(orCount)
	volRatio := last.Volume / (avgVolOR + 1e-9)
	trendStrength := math.Abs(ema20-ema50) / (ema50 + 1e-9)

	confidence := clamp(0.5+0.3*math.Min(volRatio, 2.0)+0.2*math.Min(trendStrength*100, 1.0), 0.0, 1.0)

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
