package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/akverma/signalrunner/internal/brain"
	"github.com/akverma/signalrunner/pkg/logger"
)

// RunHandler triggers pipeline runs over HTTP
// SSOT: the run-trigger API surface is only here
type RunHandler struct {
	orchestrator *brain.Orchestrator
	logger       *logger.Logger
}

// NewRunHandler creates a run handler
func NewRunHandler(orchestrator *brain.Orchestrator, log *logger.Logger) *RunHandler {
	return &RunHandler{
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Trigger starts a pipeline run in the background and returns immediately.
// ?dry_run=true suppresses outbound notifications for the run.
func (h *RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true"

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		result, err := h.orchestrator.Run(ctx, brain.RunConfig{DryRun: dryRun})
		if err != nil {
			h.logger.WithError(err).Error("Triggered run failed")
			return
		}
		h.logger.WithFields(map[string]interface{}{
			"state":   string(result.State),
			"signals": result.Count(),
			"dry_run": dryRun,
		}).Info("Triggered run finished")
	}()

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "accepted",
		"dry_run": dryRun,
	})
}
