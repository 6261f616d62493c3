package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/akverma/signalrunner/pkg/config"
	"github.com/akverma/signalrunner/pkg/httputil"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Telegram sends chat messages through the Telegram bot API.
// SSOT: all Telegram traffic goes through this client.
type Telegram struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	botToken   string
	chatID     string
}

// NewTelegram creates a Telegram channel from config
func NewTelegram(cfg *config.Config, log *logger.Logger) *Telegram {
	return &Telegram{
		httpClient: httputil.New(log, cfg.Webhook.Timeout),
		logger:     log,
		baseURL:    cfg.Telegram.BaseURL,
		botToken:   cfg.Telegram.BotToken,
		chatID:     cfg.Telegram.ChatID,
	}
}

// Configured reports whether bot credentials are present
func (t *Telegram) Configured() bool {
	return t.botToken != "" && t.chatID != ""
}

// SendMessage posts one text message to the configured chat. An
// unconfigured channel is a no-op, not an error.
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	if !t.Configured() {
		t.logger.Warn("Telegram not configured, message dropped")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	payload := map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	}

	resp, err := t.httpClient.PostJSON(ctx, url, payload)
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram rejected message (%d): %s", resp.StatusCode, string(body))
	}

	return nil
}
