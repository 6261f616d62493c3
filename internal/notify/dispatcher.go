package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Dispatcher fans a finished run out to the delivery channels. Delivery is
// best effort: a channel failure is logged and never fails the run that
// produced the signals.
type Dispatcher struct {
	notifier contracts.Notifier
	sink     contracts.SignalSink
	logger   *logger.Logger
}

// NewDispatcher creates a dispatcher over the given channels
func NewDispatcher(notifier contracts.Notifier, sink contracts.SignalSink, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		sink:     sink,
		logger:   log,
	}
}

// PublishSignals delivers the final signal set to the webhook sink and the
// chat channel.
func (d *Dispatcher) PublishSignals(ctx context.Context, signals []contracts.Signal) {
	if len(signals) == 0 {
		return
	}

	if err := d.sink.AppendSignals(ctx, signals); err != nil {
		d.logger.WithError(err).Error("Webhook delivery failed")
	}

	if err := d.notifier.SendMessage(ctx, FormatSignals(signals)); err != nil {
		d.logger.WithError(err).Error("Telegram delivery failed")
	}
}

// SendText delivers a plain status message to the chat channel
func (d *Dispatcher) SendText(ctx context.Context, text string) {
	if err := d.notifier.SendMessage(ctx, text); err != nil {
		d.logger.WithError(err).Error("Telegram delivery failed")
	}
}

// FormatSignals renders a signal batch as a readable chat message
func FormatSignals(signals []contracts.Signal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 %d trade signal(s)\n", len(signals))
	for _, sig := range signals {
		fmt.Fprintf(&b, "\n%s %s @ %.2f\nSL %.2f | TGT %.2f | conf %.2f\n%s (%s)\n",
			sig.Side, sig.Symbol, sig.Entry,
			sig.StopLoss, sig.Target, sig.Confidence,
			sig.Strategy, sig.StrategyType)
	}
	return b.String()
}
