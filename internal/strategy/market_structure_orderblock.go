package strategy

import (
	"math"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/marketdata"
)

// MarketStructureOrderBlock detects swing structure on the 1h timeframe
// with a simple zigzag, treats the last swing low/high as order-block
// zones, and trades breakouts past a fibonacci-scaled threshold beyond
// those zones.
type MarketStructureOrderBlock struct {
	zigzagLength int
	fibFactor    float64
}

// NewMarketStructureOrderBlock creates the module
func NewMarketStructureOrderBlock() *MarketStructureOrderBlock {
	return &MarketStructureOrderBlock{
		zigzagLength: 9,
		fibFactor:    0.273,
	}
}

func (s *MarketStructureOrderBlock) Name() string                 { return "market_structure_orderblock" }
func (s *MarketStructureOrderBlock) Category() contracts.Category { return contracts.CategoryIntraday }

func (s *MarketStructureOrderBlock) RequiredIndicators() []string {
	return []string{marketdata.IndicatorATR}
}

// minBars is the minimum history needed to detect swings
func (s *MarketStructureOrderBlock) minBars() int {
	return s.zigzagLength*2 + 5
}

// GenerateSignal fires when price clears the last swing zone by more than
// fibFactor of the swing range.
func (s *MarketStructureOrderBlock) GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error) {
	ds, ok := view.Get("1h")
	if !ok || ds.Len() < s.minBars() {
		return nil, nil
	}

	closes := make([]float64, ds.Len())
	for i, b := range ds.Bars {
		closes[i] = b.Close
	}

	peaks, troughs := zigzagExtrema(closes, s.zigzagLength)

	lastIndex := len(closes) - 1
	peakIdx := lastBefore(peaks, lastIndex)
	troughIdx := lastBefore(troughs, lastIndex)
	if peakIdx < 0 || troughIdx < 0 {
		return nil, nil
	}

	peakPrice := closes[peakIdx]
	troughPrice := closes[troughIdx]
	zoneRange := math.Abs(peakPrice - troughPrice)
	if zoneRange <= 0 {
		return nil, nil
	}

	lastClose := closes[lastIndex]
	prevClose := closes[lastIndex-1]
	movePct := (lastClose - prevClose) / (prevClose + 1e-9) * 100.0

	atr, ok := indicatorAt(ds, marketdata.IndicatorATR, lastIndex)
	if !ok || atr <= 0 {
		atr = zoneRange * 0.01
	}

	buyThreshold := troughPrice + s.fibFactor*zoneRange
	sellThreshold := peakPrice - s.fibFactor*zoneRange

	var side contracts.Side
	var stop float64

	switch {
	case lastClose > buyThreshold:
		side = contracts.SideBuy
		stop = troughPrice
	case lastClose < sellThreshold:
		side = contracts.SideSell
		stop = peakPrice
	default:
		return nil, nil
	}

	entry := lastClose
	risk := math.Max(0.0001, math.Abs(entry-stop))

	var target float64
	if side == contracts.SideBuy {
		target = entry + 2.0*risk
	} else {
		target = entry - 2.0*risk
	}

	// Base confidence plus boosts for a decisive move and a breakout
	// distance that dwarfs recent volatility.
	confidence := 0.5
	confidence += math.Min(0.45, math.Abs(movePct)/3.0)
	confidence += math.Min(0.35, risk/(atr*4.0))
	confidence = clamp(confidence, 0.0, 1.0)

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

// zigzagExtrema marks indices whose close is the extreme of a centered
// window of 2*length+1 bars.
func zigzagExtrema(closes []float64, length int) (peaks, troughs []int) {
	n := len(closes)
	if n < length*2+1 {
		return nil, nil
	}

	for i := length; i < n-length; i++ {
		isMax, isMin := true, true
		for j := i - length; j <= i+length; j++ {
			if closes[j] > closes[i] {
				isMax = false
			}
			if closes[j] < closes[i] {
				isMin = false
			}
		}
		if isMax {
			peaks = append(peaks, i)
		}
		if isMin {
			troughs = append(troughs, i)
		}
	}
	return peaks, troughs
}

// lastBefore returns the last index strictly before limit, or -1
func lastBefore(indices []int, limit int) int {
	for i := len(indices) - 1; i >= 0; i-- {
		if indices[i] < limit {
			return indices[i]
		}
	}
	return -1
}
