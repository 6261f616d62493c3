package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
)

// swingCloses rises 100 to a 109 peak at index 9, falls back to a 100
// trough at index 18, then appends the tail. With zigzag length 9 those
// are the only extrema.
func swingCloses(tail []float64) []float64 {
	closes := make([]float64, 0, 19+len(tail))
	for i := 0; i <= 9; i++ {
		closes = append(closes, 100+float64(i))
	}
	for i := 1; i <= 9; i++ {
		closes = append(closes, 109-float64(i))
	}
	return append(closes, tail...)
}

func ascendingTail(start, step float64, n int) []float64 {
	tail := make([]float64, n)
	for i := range tail {
		tail[i] = start + float64(i)*step
	}
	return tail
}

func hourlyView(closes []float64) contracts.MultiTimeframeView {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	bars := make([]contracts.Bar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	return contracts.MultiTimeframeView{
		"1h": {Symbol: "A.NS", Timeframe: "1h", Bars: bars},
	}
}

func TestZigzagExtrema_FindsSwingPoints(t *testing.T) {
	peaks, troughs := zigzagExtrema(swingCloses(ascendingTail(101, 1, 11)), 9)
	assert.Equal(t, []int{9}, peaks)
	assert.Equal(t, []int{18}, troughs)

	// Too few bars for a single centered window.
	peaks, troughs = zigzagExtrema([]float64{1, 2, 3}, 9)
	assert.Nil(t, peaks)
	assert.Nil(t, troughs)
}

func TestLastBefore(t *testing.T) {
	assert.Equal(t, 18, lastBefore([]int{9, 18, 25}, 25))
	assert.Equal(t, -1, lastBefore([]int{9}, 9))
	assert.Equal(t, -1, lastBefore(nil, 10))
}

func TestMarketStructureOrderBlock_BuyBreakout(t *testing.T) {
	s := NewMarketStructureOrderBlock()

	// Price reclaims the full swing range: well past the buy threshold.
	sig, err := s.GenerateSignal("A.NS", hourlyView(swingCloses(ascendingTail(101, 1, 11))))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideBuy, sig.Side)
	assert.Equal(t, 111.0, sig.Entry)
	// Stop at the swing trough, target at 2R.
	assert.Equal(t, 100.0, sig.StopLoss)
	assert.Equal(t, 133.0, sig.Target)
	assert.Equal(t, "market_structure_orderblock", sig.Strategy)
	assert.NoError(t, sig.Validate())
}

func TestMarketStructureOrderBlock_SellNearTrough(t *testing.T) {
	s := NewMarketStructureOrderBlock()

	// Price stalls just above the trough, far below the peak zone.
	sig, err := s.GenerateSignal("A.NS", hourlyView(swingCloses(ascendingTail(100.1, 0.1, 11))))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideSell, sig.Side)
	// Stop at the swing peak.
	assert.Equal(t, 109.0, sig.StopLoss)
	assert.Less(t, sig.Target, sig.Entry)
	assert.NoError(t, sig.Validate())
}

func TestMarketStructureOrderBlock_FlatSeriesEmitsNothing(t *testing.T) {
	s := NewMarketStructureOrderBlock()

	// Zero swing range: every bar is both extreme and no zone exists.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	sig, err := s.GenerateSignal("A.NS", hourlyView(closes))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestMarketStructureOrderBlock_PreconditionShortfalls(t *testing.T) {
	s := NewMarketStructureOrderBlock()

	// Below the swing-detection minimum.
	sig, err := s.GenerateSignal("A.NS", hourlyView(ascendingTail(100, 1, 10)))
	require.NoError(t, err)
	assert.Nil(t, sig)

	// Missing 1h leg.
	sig, err = s.GenerateSignal("A.NS", contracts.MultiTimeframeView{})
	require.NoError(t, err)
	assert.Nil(t, sig)

	// Monotonic series long enough for windows but with no interior swing.
	sig, err = s.GenerateSignal("A.NS", hourlyView(ascendingTail(100, 1, 30)))
	require.NoError(t, err)
	assert.Nil(t, sig)
}
