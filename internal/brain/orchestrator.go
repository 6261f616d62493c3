package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/engine"
	"github.com/akverma/signalrunner/internal/notify"
	"github.com/akverma/signalrunner/internal/strategyconfig"
	"github.com/akverma/signalrunner/pkg/logger"
)

// WatchlistBuilder narrows the universe builder to what a run needs
type WatchlistBuilder interface {
	Build(ctx context.Context, poolOverride []string) (contracts.Watchlist, error)
}

// Evaluator narrows the evaluation engine to what a run needs
type Evaluator interface {
	Evaluate(ctx context.Context, watchlist contracts.Watchlist) (*engine.Result, error)
}

// RunStore is the persistence surface a run writes through. Persistence
// is the only stage whose failure fails the run.
type RunStore interface {
	SaveWatchlist(watchlist contracts.Watchlist) error
	SaveSignals(signals []contracts.Signal) error
	AppendTradeLog(signals []contracts.Signal) error
	AppendStrategyLog(strategyName string, signals []contracts.Signal) error
	DailyNoticeSentOn(date string) bool
	MarkDailyNotice(date string) error
	CanSendHeartbeat(interval time.Duration, now time.Time) bool
	MarkHeartbeat(now time.Time) error
}

// RunConfig carries per-run options
type RunConfig struct {
	// DryRun suppresses outbound notifications; artifacts are still
	// persisted so the run can be inspected.
	DryRun bool

	// Pool overrides the configured symbol pool when non-empty
	Pool []string
}

// Orchestrator drives one full pipeline run: gate on the market window,
// build the watchlist, evaluate strategies, reconcile, persist, notify.
// SSOT: run sequencing lives here; every stage below it is policy-free.
type Orchestrator struct {
	builder    WatchlistBuilder
	evaluator  Evaluator
	store      RunStore
	dispatcher *notify.Dispatcher
	cfg        *strategyconfig.Config
	logger     *logger.Logger
	now        func() time.Time
}

// NewOrchestrator creates a pipeline orchestrator
func NewOrchestrator(
	builder WatchlistBuilder,
	evaluator Evaluator,
	store RunStore,
	dispatcher *notify.Dispatcher,
	cfg *strategyconfig.Config,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		builder:    builder,
		evaluator:  evaluator,
		store:      store,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     log,
		now:        time.Now,
	}
}

// WithClock overrides the orchestrator clock, for tests
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run executes one pipeline pass. Outside the market window it returns a
// CLOSED result without evaluating anything; inside it the pass always
// produces and persists a snapshot, even when no signal qualifies.
func (o *Orchestrator) Run(ctx context.Context, rc RunConfig) (*contracts.RunResult, error) {
	now := o.now().In(o.cfg.Meta.Location())

	result := &contracts.RunResult{
		GeneratedAt: now,
		DryRun:      rc.DryRun,
	}

	if !o.cfg.Meta.IsMarketOpen(now) {
		result.State = contracts.RunStateClosed
		o.logger.WithField("time", now.Format(time.RFC3339)).Info("Market closed, run skipped")
		o.sendClosedNotice(ctx, now, rc.DryRun)
		return result, nil
	}

	watchlist, err := o.builder.Build(ctx, rc.Pool)
	if err != nil {
		return nil, fmt.Errorf("build watchlist: %w", err)
	}
	result.Watchlist = watchlist

	if err := o.store.SaveWatchlist(watchlist); err != nil {
		return nil, fmt.Errorf("persist watchlist: %w", err)
	}

	evalResult, err := o.evaluator.Evaluate(ctx, watchlist)
	if err != nil {
		return nil, fmt.Errorf("evaluate watchlist: %w", err)
	}

	result.RawCount = len(evalResult.Signals)
	result.Skipped = evalResult.Skipped
	result.Faults = evalResult.Faults
	result.PerStrategy = make(map[string]int, len(evalResult.PerStrategy))
	for name, signals := range evalResult.PerStrategy {
		result.PerStrategy[name] = len(signals)
	}

	result.Signals = engine.Reconcile(evalResult.Signals)
	result.State = contracts.RunStateCompleted

	if err := o.persist(result, evalResult); err != nil {
		return nil, err
	}

	o.notify(ctx, result)

	o.logger.WithFields(map[string]interface{}{
		"watchlist": len(result.Watchlist),
		"raw":       result.RawCount,
		"final":     result.Count(),
		"skipped":   result.Skipped,
		"faults":    result.Faults,
		"dry_run":   result.DryRun,
	}).Info("Pipeline run completed")

	return result, nil
}

// persist writes the snapshot, the cumulative trade log, and the
// per-strategy audit logs. Any failure here fails the run.
func (o *Orchestrator) persist(result *contracts.RunResult, evalResult *engine.Result) error {
	if err := o.store.SaveSignals(result.Signals); err != nil {
		return fmt.Errorf("persist signals snapshot: %w", err)
	}

	if len(result.Signals) > 0 {
		if err := o.store.AppendTradeLog(result.Signals); err != nil {
			return fmt.Errorf("persist trade log: %w", err)
		}
	}

	for name, signals := range evalResult.PerStrategy {
		if err := o.store.AppendStrategyLog(name, signals); err != nil {
			return fmt.Errorf("persist %s strategy log: %w", name, err)
		}
	}
	return nil
}

// notify delivers the run outcome. Delivery never fails the run, and a
// dry run delivers nothing.
func (o *Orchestrator) notify(ctx context.Context, result *contracts.RunResult) {
	if result.DryRun {
		o.logger.Info("Dry run, notifications suppressed")
		return
	}

	if result.Count() > 0 {
		o.dispatcher.PublishSignals(ctx, result.Signals)
		return
	}

	interval := time.Duration(o.cfg.Notify.HeartbeatIntervalMinutes) * time.Minute
	now := o.now()
	if !o.store.CanSendHeartbeat(interval, now) {
		o.logger.Debug("Heartbeat throttled")
		return
	}

	o.dispatcher.SendText(ctx, "✅ Pipeline ran, no qualifying signals this pass")
	if err := o.store.MarkHeartbeat(now); err != nil {
		o.logger.WithError(err).Warn("Failed to record heartbeat sentinel")
	}
}

// sendClosedNotice tells the chat channel the market is closed, at most
// once per calendar day.
func (o *Orchestrator) sendClosedNotice(ctx context.Context, now time.Time, dryRun bool) {
	if dryRun {
		return
	}

	date := now.Format("2006-01-02")
	if o.store.DailyNoticeSentOn(date) {
		return
	}

	o.dispatcher.SendText(ctx, "🛑 Market closed, signal runs paused until the next session")
	if err := o.store.MarkDailyNotice(date); err != nil {
		o.logger.WithError(err).Warn("Failed to record daily notice sentinel")
	}
}
