package strategy

import (
	"math"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
)

// ClosingNearHighLow is a daily-horizon module: when yesterday's close
// lands inside the top (or bottom) slice of its day range, it expects
// continuation and enters in that direction with an ATR-buffered stop.
type ClosingNearHighLow struct {
	threshold float64 // fraction of the day range counted as "near"
	rr        float64 // reward:risk ratio for the target
}

// NewClosingNearHighLow creates the module with its shipped parameters
func NewClosingNearHighLow() *ClosingNearHighLow {
	return &ClosingNearHighLow{
		threshold: 0.10,
		rr:        2.0,
	}
}

func (s *ClosingNearHighLow) Name() string                 { return "closing_near_highlow" }
func (s *ClosingNearHighLow) Category() contracts.Category { return contracts.CategoryDaily }

// RequiredIndicators is empty: the module computes its own ATR fallback
func (s *ClosingNearHighLow) RequiredIndicators() []string { return nil }

// GenerateSignal evaluates the previous completed daily bar
func (s *ClosingNearHighLow) GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error) {
	ds, ok := view.Get("1d")
	if !ok || ds.Len() < 2 {
		return nil, nil
	}

	// The last full day forms the signal; the most recent bar stands in
	// for the next session's open.
	today := ds.Bars[ds.Len()-2]

	dayRange := today.High - today.Low
	if dayRange <= 0 {
		return nil, nil
	}

	buyCond := today.Close >= today.High-s.threshold*dayRange
	sellCond := today.Close <= today.Low+s.threshold*dayRange
	if !buyCond && !sellCond {
		return nil, nil
	}

	atr := atr14(ds.Bars)
	if atr <= 0 {
		// Fallback to the day range or a small fraction of price.
		atr = math.Max(dayRange, math.Abs(today.Close)*0.01)
	}

	// Stop buffer: 1.5*ATR or 0.5% of price, whichever is larger.
	riskBuffer := math.Max(1.5*atr, math.Abs(today.Close)*0.005)

	entry := today.Close
	var side contracts.Side
	var stop, target float64

	if buyCond {
		side = contracts.SideBuy
		stop = entry - riskBuffer
		if stop <= 0 {
			stop = entry * 0.99
		}
		target = entry + s.rr*(entry-stop)
	} else {
		side = contracts.SideSell
		stop = entry + riskBuffer
		target = entry - s.rr*(stop-entry)
	}

	// Confidence: proximity to the extreme plus a small volatility term
	// (lower ATR relative to price reads as cleaner structure).
	var proximity float64
	if side == contracts.SideBuy {
		proximity = s.threshold*dayRange - (today.High - today.Close)
	} else {
		proximity = s.threshold*dayRange - (today.Close - today.Low)
	}
	proxNorm := clamp(proximity/(s.threshold*dayRange), 0.0, 1.0)
	atrRatio := math.Min(1.0, (math.Abs(today.Close)/(atr+1e-9))/100.0)
	confidence := clamp(0.4+0.5*proxNorm+0.1*atrRatio, 0.0, 1.0)

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
