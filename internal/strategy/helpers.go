package strategy

import (
	"math"

	"github.com/akverma/signalrunner/internal/contracts"
)

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// defined reports whether all values are usable (non-NaN, non-Inf)
func defined(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// indicatorAt reads one indicator value, treating NaN as missing
func indicatorAt(ds *contracts.TimeframeDataset, name string, i int) (float64, bool) {
	v, ok := ds.IndicatorAt(name, i)
	if !ok || !defined(v) {
		return 0, false
	}
	return v, true
}

// atr14 computes a simple 14-bar ATR over the dataset tail, for modules
// that do not declare the precomputed column. Returns 0 when undefined.
func atr14(bars []contracts.Bar) float64 {
	const period = 14
	if len(bars) < 2 {
		return 0
	}

	start := len(bars) - period
	if start < 1 {
		start = 1
	}

	var sum float64
	var n int
	for i := start; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		sum += math.Max(hl, math.Max(hc, lc))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
