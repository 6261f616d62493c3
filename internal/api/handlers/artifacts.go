package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/store"
	"github.com/akverma/signalrunner/pkg/logger"
)

// ArtifactHandler serves the latest persisted run artifacts
type ArtifactHandler struct {
	store  *store.FileStore
	logger *logger.Logger
}

// NewArtifactHandler creates an artifact handler
func NewArtifactHandler(st *store.FileStore, log *logger.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		store:  st,
		logger: log,
	}
}

// GetSignals returns the latest signal snapshot
func (h *ArtifactHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	signals, err := h.store.LoadSignals()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusOK, []contracts.Signal{})
			return
		}
		h.logger.WithError(err).Error("Failed to load signals snapshot")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load signals"})
		return
	}

	writeJSON(w, http.StatusOK, signals)
}

// GetWatchlist returns the latest watchlist snapshot
func (h *ArtifactHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlist, err := h.store.LoadWatchlist()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusOK, contracts.Watchlist{})
			return
		}
		h.logger.WithError(err).Error("Failed to load watchlist snapshot")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load watchlist"})
		return
	}

	writeJSON(w, http.StatusOK, watchlist)
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
