package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/logger"
)

func tradeLogSignal(symbol string, entry float64) contracts.Signal {
	return contracts.Signal{
		Symbol: symbol, Side: contracts.SideBuy, Entry: entry,
		StopLoss: entry * 0.985, Target: entry * 1.015, Confidence: 0.75,
		Strategy: "macd_crossover", StrategyType: contracts.CategoryIntraday,
		Timestamp: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestTradeLog_AppendAndRead(t *testing.T) {
	s := NewFileStore(t.TempDir(), logger.NewNop())

	require.NoError(t, s.AppendTradeLog([]contracts.Signal{tradeLogSignal("RELIANCE.NS", 2850)}))
	require.NoError(t, s.AppendTradeLog([]contracts.Signal{tradeLogSignal("TCS.NS", 4100)}))

	header, rows, err := s.ReadTradeLog()
	require.NoError(t, err)

	assert.Equal(t, signalFieldOrder, header)
	require.Len(t, rows, 2)
	assert.Equal(t, "RELIANCE.NS", rows[0]["Stock"])
	assert.Equal(t, "TCS.NS", rows[1]["Stock"])
	assert.Equal(t, "2850.00", rows[0]["Entry"])
	assert.Equal(t, "BUY", rows[0]["Side"])
}

func TestTradeLog_WideningPreservesOldRows(t *testing.T) {
	s := NewFileStore(t.TempDir(), logger.NewNop())

	require.NoError(t, s.AppendTradeLog([]contracts.Signal{tradeLogSignal("RELIANCE.NS", 2850)}))

	// Simulate the tracker overlay: rewrite with extra columns, then a new
	// run appends plain signal rows again.
	header, rows, err := s.ReadTradeLog()
	require.NoError(t, err)

	header = append(header, "LivePrice", "Result", "PnL%")
	rows[0]["LivePrice"] = "2900.00"
	rows[0]["Result"] = "Target Hit"
	rows[0]["PnL%"] = "1.50"
	require.NoError(t, s.RewriteTradeLog(header, rows))

	require.NoError(t, s.AppendTradeLog([]contracts.Signal{tradeLogSignal("TCS.NS", 4100)}))

	gotHeader, gotRows, err := s.ReadTradeLog()
	require.NoError(t, err)

	// Overlay columns stay in the header and old cell values survive.
	assert.Contains(t, gotHeader, "Result")
	require.Len(t, gotRows, 2)
	assert.Equal(t, "Target Hit", gotRows[0]["Result"])
	assert.Equal(t, "2900.00", gotRows[0]["LivePrice"])

	// The appended row has no overlay values yet.
	assert.Equal(t, "TCS.NS", gotRows[1]["Stock"])
	assert.Equal(t, "", gotRows[1]["Result"])
}

func TestTradeLog_WidenOnAppend(t *testing.T) {
	s := NewFileStore(t.TempDir(), logger.NewNop())

	// Seed a narrow file, then append rows carrying more columns.
	require.NoError(t, s.RewriteTradeLog(
		[]string{"Timestamp", "Stock", "Side"},
		[]map[string]string{{"Timestamp": "t0", "Stock": "OLD.NS", "Side": "BUY"}},
	))

	require.NoError(t, s.AppendTradeLog([]contracts.Signal{tradeLogSignal("NEW.NS", 500)}))

	header, rows, err := s.ReadTradeLog()
	require.NoError(t, err)

	assert.Contains(t, header, "Confidence")
	require.Len(t, rows, 2)
	assert.Equal(t, "OLD.NS", rows[0]["Stock"])
	assert.Equal(t, "", rows[0]["Confidence"], "old rows pad new columns with empty cells")
	assert.Equal(t, "0.75", rows[1]["Confidence"])
}

func TestStrategyLog_WritesPerStrategyFile(t *testing.T) {
	s := NewFileStore(t.TempDir(), logger.NewNop())

	require.NoError(t, s.AppendStrategyLog("macd_crossover", []contracts.Signal{tradeLogSignal("INFY.NS", 1500)}))
	// Empty batches write nothing.
	require.NoError(t, s.AppendStrategyLog("orb_trend_filter", nil))

	assert.FileExists(t, s.path(strategyLogDir)+"/macd_crossover_log.csv")
	assert.NoFileExists(t, s.path(strategyLogDir)+"/orb_trend_filter_log.csv")
}
