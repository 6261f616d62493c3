package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
)

// pivotView pairs a completed previous day with one intraday bar at the
// price under test. The previous day sits at daily index len-2.
func pivotView(prevDay contracts.Bar, lastClose float64) contracts.MultiTimeframeView {
	return contracts.MultiTimeframeView{
		"1d": {
			Symbol:    "A.NS",
			Timeframe: "1d",
			Bars: []contracts.Bar{
				prevDay,
				{Open: prevDay.Close, High: prevDay.Close, Low: prevDay.Close, Close: prevDay.Close},
			},
		},
		"5m": {
			Symbol:    "A.NS",
			Timeframe: "5m",
			Bars:      []contracts.Bar{{Close: lastClose, Volume: 1000}},
		},
	}
}

// H 110 / L 90 / C 100 gives pivot 100, R1 110, S1 90.
var pivotDay = contracts.Bar{Open: 95, High: 110, Low: 90, Close: 100}

func TestPivotSRLBreakout_BuyAboveR1(t *testing.T) {
	s := NewPivotSRLBreakout()

	sig, err := s.GenerateSignal("A.NS", pivotView(pivotDay, 112))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideBuy, sig.Side)
	assert.Equal(t, 112.0, sig.Entry)
	// Stop buffer is half the R1-S1 range (10), target at 2R.
	assert.Equal(t, 102.0, sig.StopLoss)
	assert.Equal(t, 132.0, sig.Target)
	assert.InDelta(t, 0.8, sig.Confidence, 0.01)
	assert.Equal(t, "pivot_srl_breakout", sig.Strategy)
	assert.NoError(t, sig.Validate())
}

func TestPivotSRLBreakout_SellBelowS1(t *testing.T) {
	s := NewPivotSRLBreakout()

	sig, err := s.GenerateSignal("A.NS", pivotView(pivotDay, 88))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SideSell, sig.Side)
	assert.Equal(t, 98.0, sig.StopLoss)
	assert.Equal(t, 68.0, sig.Target)
	assert.NoError(t, sig.Validate())
}

func TestPivotSRLBreakout_InsideLadderEmitsNothing(t *testing.T) {
	s := NewPivotSRLBreakout()

	// Above the pivot but short of R1.
	sig, err := s.GenerateSignal("A.NS", pivotView(pivotDay, 105))
	require.NoError(t, err)
	assert.Nil(t, sig)

	// Below the pivot but short of S1.
	sig, err = s.GenerateSignal("A.NS", pivotView(pivotDay, 95))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestPivotSRLBreakout_ZeroRangeDayEmitsNothing(t *testing.T) {
	s := NewPivotSRLBreakout()

	// H = L = C collapses the ladder to a point: no stop buffer exists.
	flatDay := contracts.Bar{Open: 100, High: 100, Low: 100, Close: 100}
	sig, err := s.GenerateSignal("A.NS", pivotView(flatDay, 101))
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestPivotSRLBreakout_MissingLegs(t *testing.T) {
	s := NewPivotSRLBreakout()

	// No daily leg.
	sig, err := s.GenerateSignal("A.NS", contracts.MultiTimeframeView{
		"5m": {Symbol: "A.NS", Timeframe: "5m", Bars: []contracts.Bar{{Close: 112}}},
	})
	require.NoError(t, err)
	assert.Nil(t, sig)

	// A single daily bar has no completed previous day.
	sig, err = s.GenerateSignal("A.NS", contracts.MultiTimeframeView{
		"1d": {Symbol: "A.NS", Timeframe: "1d", Bars: []contracts.Bar{pivotDay}},
		"5m": {Symbol: "A.NS", Timeframe: "5m", Bars: []contracts.Bar{{Close: 112}}},
	})
	require.NoError(t, err)
	assert.Nil(t, sig)

	// No intraday leg.
	view := pivotView(pivotDay, 112)
	delete(view, "5m")
	sig, err = s.GenerateSignal("A.NS", view)
	require.NoError(t, err)
	assert.Nil(t, sig)
}
