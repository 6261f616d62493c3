package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/marketdata"
)

var orbLoc = time.FixedZone("IST", 5*3600+30*60)

// orbView builds one 5m session starting 09:15. The first three bars set
// a 98..102 opening range, the last bar closes at lastClose on double
// volume.
func orbView(lastClose, ema20, ema50 float64) contracts.MultiTimeframeView {
	base := time.Date(2026, 3, 2, 9, 15, 0, 0, orbLoc)

	n := 12
	bars := make([]contracts.Bar, n)
	for i := range bars {
		bars[i] = contracts.Bar{
			Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
			Open:      100, High: 100.5, Low: 99.5, Close: 100, Volume: 1000,
		}
	}
	for i := 0; i < 3; i++ {
		bars[i].High = 102
		bars[i].Low = 98
	}

	last := &bars[n-1]
	last.Close = lastClose
	last.High = math.Max(last.High, lastClose)
	last.Low = math.Min(last.Low, lastClose)
	last.Volume = 2000

	return contracts.MultiTimeframeView{
		"5m": {
			Symbol:    "A.NS",
			Timeframe: "5m",
			Bars:      bars,
			Indicators: map[string][]float64{
				marketdata.IndicatorEMA20: flatColumn(n, ema20),
				marketdata.IndicatorEMA50: flatColumn(n, ema50),
			},
		},
	}
}

func TestORBTrendFilter_BuyBreakoutWithUptrend(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	sig, err := s.GenerateSignal("A.NS", orbView(103, 101, 100))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideBuy, sig.Side)
	assert.Equal(t, 103.0, sig.Entry)
	// Stop at the range low, target at 2R.
	assert.Equal(t, 98.0, sig.StopLoss)
	assert.Equal(t, 113.0, sig.Target)
	assert.Equal(t, "orb_trend_filter", sig.Strategy)
	assert.NoError(t, sig.Validate())
}

func TestORBTrendFilter_SellBreakdownWithDowntrend(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	sig, err := s.GenerateSignal("A.NS", orbView(97, 99, 100))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideSell, sig.Side)
	assert.Equal(t, 102.0, sig.StopLoss)
	assert.Equal(t, 87.0, sig.Target)
	assert.NoError(t, sig.Validate())
}

func TestORBTrendFilter_BreakoutAgainstTrendEmitsNothing(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	sig, err := s.GenerateSignal("A.NS", orbView(103, 100, 101))
	require.NoError(t, err)
	assert.Nil(t, sig)

	sig, err = s.GenerateSignal("A.NS", orbView(97, 101, 100))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestORBTrendFilter_InsideRangeEmitsNothing(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	sig, err := s.GenerateSignal("A.NS", orbView(100, 101, 100))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestORBTrendFilter_PriorSessionBarsIgnored(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	// A wild bar from the previous session must not widen the range.
	view := orbView(103, 101, 100)
	ds := view["5m"]
	prior := contracts.Bar{
		Timestamp: time.Date(2026, 3, 1, 9, 20, 0, 0, orbLoc),
		Open:      120, High: 200, Low: 50, Close: 120, Volume: 5000,
	}
	ds.Bars = append([]contracts.Bar{prior}, ds.Bars...)
	ds.Indicators[marketdata.IndicatorEMA20] = flatColumn(len(ds.Bars), 101)
	ds.Indicators[marketdata.IndicatorEMA50] = flatColumn(len(ds.Bars), 100)

	sig, err := s.GenerateSignal("A.NS", view)
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, contracts.SideBuy, sig.Side)
	assert.Equal(t, 98.0, sig.StopLoss)
}

func TestORBTrendFilter_NoPostRangeBarsEmitsNothing(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	// Ten bars all inside the opening range window: the breakout leg has
	// not started yet.
	base := time.Date(2026, 3, 2, 9, 15, 0, 0, orbLoc)
	bars := make([]contracts.Bar, 10)
	for i := range bars {
		bars[i] = contracts.Bar{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Open:      100, High: 102, Low: 98, Close: 100, Volume: 1000,
		}
	}
	view := contracts.MultiTimeframeView{
		"5m": {Symbol: "A.NS", Timeframe: "5m", Bars: bars},
	}

	sig, err := s.GenerateSignal("A.NS", view)
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestORBTrendFilter_PreconditionShortfalls(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "09:15")

	// EMA columns absent.
	view := orbView(103, 101, 100)
	view["5m"].Indicators = nil
	sig, err := s.GenerateSignal("A.NS", view)
	require.NoError(t, err)
	assert.Nil(t, sig)

	// Too little history.
	short := orbView(103, 101, 100)
	short["5m"].Bars = short["5m"].Bars[:5]
	sig, err = s.GenerateSignal("A.NS", short)
	require.NoError(t, err)
	assert.Nil(t, sig)

	// Missing 5m leg.
	sig, err = s.GenerateSignal("A.NS", contracts.MultiTimeframeView{})
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestORBTrendFilter_MalformedOpenFallsBackToDefaultSession(t *testing.T) {
	s := NewORBTrendFilter(orbLoc, "bogus")

	sig, err := s.GenerateSignal("A.NS", orbView(103, 101, 100))
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, contracts.SideBuy, sig.Side)
}
