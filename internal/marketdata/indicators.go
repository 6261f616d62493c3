package marketdata

import (
	"math"

	"github.com/akverma/signalrunner/internal/contracts"
)

// Indicator column names strategies may declare as requirements.
const (
	IndicatorATR    = "atr"
	IndicatorEMA20  = "ema20"
	IndicatorEMA21  = "ema21"
	IndicatorEMA50  = "ema50"
	IndicatorRSI14  = "rsi14"
	IndicatorSMA200 = "sma200"
	IndicatorMACD   = "macd"
	IndicatorSignal = "signal"
	IndicatorHist   = "hist"
)

// AttachIndicators computes only the requested derived columns and aligns
// them with ds.Bars by index. Unknown names are ignored. Leading values
// without enough history are NaN.
func AttachIndicators(ds *contracts.TimeframeDataset, needed []string) {
	if ds.Empty() || len(needed) == 0 {
		return
	}

	if ds.Indicators == nil {
		ds.Indicators = make(map[string][]float64, len(needed))
	}

	closes := make([]float64, len(ds.Bars))
	for i, b := range ds.Bars {
		closes[i] = b.Close
	}

	wantMACD := false
	for _, name := range needed {
		switch name {
		case IndicatorATR:
			ds.Indicators[IndicatorATR] = atrSeries(ds.Bars, 14)
		case IndicatorEMA20:
			ds.Indicators[IndicatorEMA20] = emaSeries(closes, 20)
		case IndicatorEMA21:
			ds.Indicators[IndicatorEMA21] = emaSeries(closes, 21)
		case IndicatorEMA50:
			ds.Indicators[IndicatorEMA50] = emaSeries(closes, 50)
		case IndicatorRSI14:
			ds.Indicators[IndicatorRSI14] = rsiSeries(closes, 14)
		case IndicatorSMA200:
			ds.Indicators[IndicatorSMA200] = smaSeries(closes, 200)
		case IndicatorMACD, IndicatorSignal, IndicatorHist:
			wantMACD = true
		}
	}

	if wantMACD {
		macd, signal, hist := macdSeries(closes, 12, 26, 9)
		ds.Indicators[IndicatorMACD] = macd
		ds.Indicators[IndicatorSignal] = signal
		ds.Indicators[IndicatorHist] = hist
	}
}

// smaSeries computes a simple moving average; the first period-1 values
// are NaN.
func smaSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// emaSeries computes an exponential moving average seeded with the SMA of
// the first period values.
func emaSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	multiplier := 2.0 / (float64(period) + 1.0)
	ema := seed
	for i := period; i < len(values); i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}

// rsiSeries computes Wilder's RSI
func rsiSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if len(values) < period+1 {
		return out
	}

	var gain, loss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		g, l := 0.0, 0.0
		if change > 0 {
			g = change
		} else {
			l = -change
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// atrSeries computes the average true range as a rolling mean of TR with
// a minimum window of one bar.
func atrSeries(bars []contracts.Bar, period int) []float64 {
	n := len(bars)
	out := nanSeries(n)
	if n == 0 {
		return out
	}

	tr := make([]float64, n)
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < n; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += tr[i]
		window := period
		if i+1 < period {
			window = i + 1
		} else if i >= period {
			sum -= tr[i-period]
		}
		out[i] = sum / float64(window)
	}
	return out
}

// macdSeries computes MACD, its signal line and the histogram
func macdSeries(values []float64, fast, slow, signalPeriod int) ([]float64, []float64, []float64) {
	n := len(values)
	macd := nanSeries(n)
	signal := nanSeries(n)
	hist := nanSeries(n)

	emaFast := emaSeries(values, fast)
	emaSlow := emaSeries(values, slow)

	firstDefined := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
			if firstDefined < 0 {
				firstDefined = i
			}
		}
	}
	if firstDefined < 0 || n-firstDefined < signalPeriod {
		return macd, signal, hist
	}

	// Signal line is the EMA of the defined MACD region.
	defined := macd[firstDefined:]
	sig := emaSeries(defined, signalPeriod)
	for i, v := range sig {
		signal[firstDefined+i] = v
		if !math.IsNaN(v) {
			hist[firstDefined+i] = defined[i] - v
		}
	}
	return macd, signal, hist
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
