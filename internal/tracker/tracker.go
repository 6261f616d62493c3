package tracker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/notify"
	"github.com/akverma/signalrunner/internal/store"
	"github.com/akverma/signalrunner/internal/strategyconfig"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Overlay columns the tracker maintains on the trade log.
const (
	colLivePrice = "LivePrice"
	colResult    = "Result"
	colPnL       = "PnL%"
)

// Tracker marks open positions in the trade log to live prices and
// promotes them to terminal states when a target or stop is crossed.
// SSOT: the Result column is written only here.
type Tracker struct {
	store      *store.FileStore
	provider   contracts.DataProvider
	dispatcher *notify.Dispatcher
	meta       strategyconfig.Meta
	logger     *logger.Logger
	now        func() time.Time
}

// NewTracker creates a position tracker
func NewTracker(
	st *store.FileStore,
	provider contracts.DataProvider,
	dispatcher *notify.Dispatcher,
	meta strategyconfig.Meta,
	log *logger.Logger,
) *Tracker {
	return &Tracker{
		store:      st,
		provider:   provider,
		dispatcher: dispatcher,
		meta:       meta,
		logger:     log,
		now:        time.Now,
	}
}

// WithClock overrides the tracker clock, for tests
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Track refreshes every open row in the trade log. Terminal rows are left
// untouched; rows whose price fetch fails keep their previous state.
func (t *Tracker) Track(ctx context.Context) error {
	header, rows, err := t.store.ReadTradeLog()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.logger.Info("No trade log yet, nothing to track")
			return nil
		}
		return fmt.Errorf("load trade log: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	header = widenHeader(header, colLivePrice, colResult, colPnL)

	prices := make(map[string]float64)
	updated := 0

	for _, row := range rows {
		if terminal(row[colResult]) {
			continue
		}

		symbol := row["Stock"]
		entry, eErr := strconv.ParseFloat(row["Entry"], 64)
		target, tErr := strconv.ParseFloat(row["Target"], 64)
		stop, sErr := strconv.ParseFloat(row["StopLoss"], 64)
		if symbol == "" || eErr != nil || tErr != nil || sErr != nil {
			continue
		}

		live, ok := prices[symbol]
		if !ok {
			live, err = t.provider.FetchLatestPrice(ctx, symbol)
			if err != nil {
				t.logger.WithFields(map[string]interface{}{
					"symbol": symbol,
					"error":  err.Error(),
				}).Warn("Live price unavailable, row left as is")
				prices[symbol] = 0
				continue
			}
			prices[symbol] = live
		}
		if live == 0 {
			continue
		}

		status, pnl := Classify(contracts.Side(row["Side"]), entry, target, stop, live)
		row[colLivePrice] = strconv.FormatFloat(live, 'f', 2, 64)
		row[colResult] = status
		row[colPnL] = strconv.FormatFloat(pnl, 'f', 2, 64)
		updated++
	}

	if updated == 0 {
		return nil
	}

	if err := t.store.RewriteTradeLog(header, rows); err != nil {
		return fmt.Errorf("persist tracked trade log: %w", err)
	}

	t.logger.WithField("updated", updated).Info("Trade log positions refreshed")
	return nil
}

// Run performs one tracking pass and, once per day after the market
// closes, sends the end-of-day summary.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.Track(ctx); err != nil {
		return err
	}

	now := t.now().In(t.meta.Location())
	if t.meta.IsMarketOpen(now) {
		return nil
	}

	date := now.Format("2006-01-02")
	if t.store.EODSummarySentOn(date) {
		return nil
	}

	summary, err := t.Summary()
	if err != nil {
		return err
	}
	if summary != "" {
		t.dispatcher.SendText(ctx, summary)
	}

	if err := t.store.MarkEODSummary(date); err != nil {
		t.logger.WithError(err).Warn("Failed to record EOD summary sentinel")
	}
	return nil
}

// Summary renders the trade log as an end-of-day report. An empty or
// missing log yields an empty summary.
func (t *Tracker) Summary() (string, error) {
	_, rows, err := t.store.ReadTradeLog()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load trade log: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	var open, targets, stops int
	var totalPnL float64
	for _, row := range rows {
		switch row[colResult] {
		case StatusTargetHit:
			targets++
		case StatusStopHit:
			stops++
		default:
			open++
		}
		if pnl, err := strconv.ParseFloat(row[colPnL], 64); err == nil {
			totalPnL += pnl
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 EOD summary\n")
	fmt.Fprintf(&b, "Tracked: %d | Target: %d | Stop: %d | Open: %d\n", len(rows), targets, stops, open)
	if closed := targets + stops; closed > 0 {
		fmt.Fprintf(&b, "Win rate: %.0f%%\n", float64(targets)/float64(closed)*100)
	}
	fmt.Fprintf(&b, "Net PnL: %.2f%%", totalPnL)
	return b.String(), nil
}

func terminal(status string) bool {
	return status == StatusTargetHit || status == StatusStopHit
}

// widenHeader appends any missing columns, keeping existing positions
func widenHeader(header []string, cols ...string) []string {
	known := make(map[string]struct{}, len(header))
	for _, col := range header {
		known[col] = struct{}{}
	}
	for _, col := range cols {
		if _, ok := known[col]; !ok {
			header = append(header, col)
		}
	}
	return header
}
