package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/strategy"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Evaluator runs every discovered strategy against every watchlist symbol
// and collects qualifying signals. Each (symbol, strategy) invocation is
// isolated: a fault or an empty result never prevents the remaining
// invocations from proceeding.
type Evaluator struct {
	provider        contracts.DataProvider
	strategies      []strategy.Strategy
	confidenceFloor float64
	defaultLevelPct float64
	workers         int
	logger          *logger.Logger
}

// Result aggregates one evaluation pass
type Result struct {
	// Signals is the flat accepted list, ordered by watchlist position
	// then strategy registration order.
	Signals []contracts.Signal

	// PerStrategy groups accepted signals for the per-strategy audit logs
	PerStrategy map[string][]contracts.Signal

	// Skipped counts data-unavailable and below-floor outcomes
	Skipped int

	// Faults counts strategy invocations that failed unexpectedly
	Faults int
}

// NewEvaluator creates an evaluation engine
func NewEvaluator(
	provider contracts.DataProvider,
	strategies []strategy.Strategy,
	confidenceFloor float64,
	defaultLevelPct float64,
	workers int,
	log *logger.Logger,
) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{
		provider:        provider,
		strategies:      strategies,
		confidenceFloor: confidenceFloor,
		defaultLevelPct: defaultLevelPct,
		workers:         workers,
		logger:          log,
	}
}

// Evaluate fans symbols out across a bounded worker pool and merges the
// per-symbol outcomes after all workers return, so no shared state is
// touched while a provider call is in flight. A canceled context aborts
// the pass; partial results are not returned.
func (e *Evaluator) Evaluate(ctx context.Context, watchlist contracts.Watchlist) (*Result, error) {
	outcomes := make([][]contracts.EvalOutcome, len(watchlist))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = e.evaluateSymbol(ctx, watchlist[idx])
			}
		}()
	}

loop:
	for idx := range watchlist {
		select {
		case <-ctx.Done():
			break loop
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation canceled: %w", err)
	}

	// Merge in watchlist order so tie-breaking downstream stays
	// deterministic.
	result := &Result{
		PerStrategy: make(map[string][]contracts.Signal, len(e.strategies)),
	}
	for _, s := range e.strategies {
		result.PerStrategy[s.Name()] = nil
	}

	for _, symbolOutcomes := range outcomes {
		for _, o := range symbolOutcomes {
			switch o.Kind {
			case contracts.OutcomeAccepted:
				result.Signals = append(result.Signals, *o.Signal)
				result.PerStrategy[o.Strategy] = append(result.PerStrategy[o.Strategy], *o.Signal)
			case contracts.OutcomeSkipped:
				result.Skipped++
			case contracts.OutcomeFaulted:
				result.Faults++
			}
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"symbols":  len(watchlist),
		"accepted": len(result.Signals),
		"skipped":  result.Skipped,
		"faults":   result.Faults,
	}).Info("Evaluation pass completed")

	return result, nil
}

// evaluateSymbol fetches the fused view once and runs every strategy on it
func (e *Evaluator) evaluateSymbol(ctx context.Context, symbol string) []contracts.EvalOutcome {
	view, err := e.provider.FetchMultiTimeframe(ctx, symbol, strategy.RequiredIndicators(e.strategies))
	if err != nil || view.Empty() {
		reason := "no data"
		if err != nil {
			reason = err.Error()
		}
		e.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"reason": reason,
		}).Warn("Symbol skipped, data unavailable")
		return []contracts.EvalOutcome{{
			Symbol: symbol,
			Kind:   contracts.OutcomeSkipped,
			Reason: reason,
		}}
	}

	outcomes := make([]contracts.EvalOutcome, 0, len(e.strategies))
	for _, strat := range e.strategies {
		outcomes = append(outcomes, e.invoke(strat, symbol, view))
	}
	return outcomes
}

// invoke runs one strategy with fault isolation and applies the default
// level policy, the structural invariant check, and the confidence floor.
func (e *Evaluator) invoke(strat strategy.Strategy, symbol string, view contracts.MultiTimeframeView) (outcome contracts.EvalOutcome) {
	outcome = contracts.EvalOutcome{Symbol: symbol, Strategy: strat.Name()}

	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(map[string]interface{}{
				"symbol":   symbol,
				"strategy": strat.Name(),
				"panic":    fmt.Sprint(r),
			}).Error("Strategy panicked")
			outcome.Kind = contracts.OutcomeFaulted
			outcome.Reason = fmt.Sprintf("panic: %v", r)
			outcome.Signal = nil
		}
	}()

	sig, err := strat.GenerateSignal(symbol, view)
	if err != nil {
		e.logger.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"strategy": strat.Name(),
			"error":    err.Error(),
		}).Error("Strategy failed")
		outcome.Kind = contracts.OutcomeFaulted
		outcome.Reason = err.Error()
		return outcome
	}
	if sig == nil {
		outcome.Kind = contracts.OutcomeSkipped
		outcome.Reason = "no signal"
		return outcome
	}

	if sig.Strategy == "" {
		sig.Strategy = strat.Name()
	}
	if sig.StrategyType == "" {
		sig.StrategyType = strat.Category()
	}
	if !sig.HasLevels() {
		sig.ApplyDefaultLevels(e.defaultLevelPct)
	}

	if err := sig.Validate(); err != nil {
		// A malformed signal is rejected, never forwarded.
		e.logger.WithFields(map[string]interface{}{
			"symbol":   symbol,
			"strategy": strat.Name(),
			"error":    err.Error(),
		}).Error("Strategy emitted invalid signal, rejected")
		outcome.Kind = contracts.OutcomeFaulted
		outcome.Reason = err.Error()
		return outcome
	}

	if sig.Confidence < e.confidenceFloor {
		outcome.Kind = contracts.OutcomeSkipped
		outcome.Reason = fmt.Sprintf("confidence %.2f below floor %.2f", sig.Confidence, e.confidenceFloor)
		return outcome
	}

	outcome.Kind = contracts.OutcomeAccepted
	outcome.Signal = sig
	return outcome
}
