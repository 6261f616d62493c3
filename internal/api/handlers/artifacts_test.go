package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/store"
	"github.com/akverma/signalrunner/pkg/logger"
)

func TestGetSignals_ReturnsLatestSnapshot(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, st.SaveSignals([]contracts.Signal{{
		Symbol: "RELIANCE.NS", Side: contracts.SideBuy, Entry: 2850,
		StopLoss: 2807, Target: 2893, Confidence: 0.82, Strategy: "macd_crossover",
	}}))

	h := NewArtifactHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetSignals(rec, httptest.NewRequest(http.MethodGet, "/api/signals", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var signals []contracts.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signals))
	require.Len(t, signals, 1)
	assert.Equal(t, "RELIANCE.NS", signals[0].Symbol)
}

func TestGetSignals_NoSnapshotYet(t *testing.T) {
	h := NewArtifactHandler(store.NewFileStore(t.TempDir(), logger.NewNop()), logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetSignals(rec, httptest.NewRequest(http.MethodGet, "/api/signals", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetWatchlist(t *testing.T) {
	st := store.NewFileStore(t.TempDir(), logger.NewNop())
	require.NoError(t, st.SaveWatchlist(contracts.Watchlist{"TCS.NS", "INFY.NS"}))

	h := NewArtifactHandler(st, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetWatchlist(rec, httptest.NewRequest(http.MethodGet, "/api/watchlist", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var watchlist contracts.Watchlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &watchlist))
	assert.Equal(t, contracts.Watchlist{"TCS.NS", "INFY.NS"}, watchlist)
}
