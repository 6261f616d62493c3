package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/config"
	"github.com/akverma/signalrunner/pkg/httputil"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Webhook pushes final signal batches to an external HTTP consumer as a
// JSON array.
type Webhook struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewWebhook creates a webhook sink from config
func NewWebhook(cfg *config.Config, log *logger.Logger) *Webhook {
	return &Webhook{
		httpClient: httputil.New(log, cfg.Webhook.Timeout),
		logger:     log,
		url:        cfg.Webhook.URL,
	}
}

// Configured reports whether a destination URL is present
func (w *Webhook) Configured() bool {
	return w.url != ""
}

// AppendSignals posts the signal batch to the configured endpoint. An
// unconfigured sink is a no-op, not an error.
func (w *Webhook) AppendSignals(ctx context.Context, signals []contracts.Signal) error {
	if !w.Configured() {
		w.logger.Warn("Webhook not configured, batch dropped")
		return nil
	}
	if len(signals) == 0 {
		return nil
	}

	resp, err := w.httpClient.PostJSON(ctx, w.url, signals)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected batch (%d): %s", resp.StatusCode, string(body))
	}

	w.logger.WithField("count", len(signals)).Info("Signal batch delivered to webhook")
	return nil
}
