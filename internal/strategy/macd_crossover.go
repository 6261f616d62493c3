package strategy

import (
	"math"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/marketdata"
)

// MACDCrossover trades MACD/signal-line crossovers on the 5m timeframe,
// gated by an EMA20/EMA50 trend filter, with ATR-sized stops.
type MACDCrossover struct{}

// NewMACDCrossover creates the module
func NewMACDCrossover() *MACDCrossover {
	return &MACDCrossover{}
}

func (s *MACDCrossover) Name() string                { return "macd_crossover" }
func (s *MACDCrossover) Category() contracts.Category { return contracts.CategoryIntraday }

func (s *MACDCrossover) RequiredIndicators() []string {
	return []string{
		marketdata.IndicatorMACD,
		marketdata.IndicatorSignal,
		marketdata.IndicatorHist,
		marketdata.IndicatorEMA20,
		marketdata.IndicatorEMA50,
		marketdata.IndicatorATR,
	}
}

// GenerateSignal emits a trade when the MACD line crosses its signal line
// in the direction of the short-term trend.
func (s *MACDCrossover) GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error) {
	ds, ok := view.Get("5m")
	if !ok || ds.Len() < 50 {
		return nil, nil
	}

	curr := ds.Len() - 1
	prev := curr - 1

	macdPrev, ok1 := indicatorAt(ds, marketdata.IndicatorMACD, prev)
	sigPrev, ok2 := indicatorAt(ds, marketdata.IndicatorSignal, prev)
	macdCurr, ok3 := indicatorAt(ds, marketdata.IndicatorMACD, curr)
	sigCurr, ok4 := indicatorAt(ds, marketdata.IndicatorSignal, curr)
	ema20, ok5 := indicatorAt(ds, marketdata.IndicatorEMA20, curr)
	ema50, ok6 := indicatorAt(ds, marketdata.IndicatorEMA50, curr)
	atr, ok7 := indicatorAt(ds, marketdata.IndicatorATR, curr)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 || !ok7 || atr <= 0 {
		return nil, nil
	}

	buyCross := macdPrev < sigPrev && macdCurr > sigCurr
	sellCross := macdPrev > sigPrev && macdCurr < sigCurr

	var side contracts.Side
	switch {
	case buyCross && ema20 > ema50:
		side = contracts.SideBuy
	case sellCross && ema20 < ema50:
		side = contracts.SideSell
	default:
		return nil, nil
	}

	entry := ds.Bars[curr].Close

	var stop, target float64
	if side == contracts.SideBuy {
		stop = entry - atr
		target = entry + 2*atr
	} else {
		stop = entry + atr
		target = entry - 2*atr
	}

	// Confidence scales with how strong the current histogram bar is
	// against its recent average.
	hist, _ := indicatorAt(ds, marketdata.IndicatorHist, curr)
	confidence := clamp(math.Abs(hist)/(math.Abs(recentHistMean(ds, 10))+1e-6), 0.6, 1.0)

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

// recentHistMean averages the last n histogram values, skipping NaN
func recentHistMean(ds *contracts.TimeframeDataset, n int) float64 {
	var sum float64
	var count int
	for i := ds.Len() - n; i < ds.Len(); i++ {
		if v, ok := indicatorAt(ds, marketdata.IndicatorHist, i); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
