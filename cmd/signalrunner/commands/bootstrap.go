package commands

import (
	"fmt"

	"github.com/akverma/signalrunner/internal/brain"
	"github.com/akverma/signalrunner/internal/engine"
	"github.com/akverma/signalrunner/internal/marketdata"
	"github.com/akverma/signalrunner/internal/notify"
	"github.com/akverma/signalrunner/internal/store"
	"github.com/akverma/signalrunner/internal/strategy"
	"github.com/akverma/signalrunner/internal/strategyconfig"
	"github.com/akverma/signalrunner/internal/tracker"
	"github.com/akverma/signalrunner/internal/universe"
	"github.com/akverma/signalrunner/pkg/config"
	"github.com/akverma/signalrunner/pkg/logger"
)

// app wires the full component graph once per command invocation
type app struct {
	cfg          *config.Config
	logger       *logger.Logger
	store        *store.FileStore
	builder      *universe.Builder
	orchestrator *brain.Orchestrator
	tracker      *tracker.Tracker
}

// newApp loads configuration and constructs every pipeline component
func newApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load strategy parameters
	strategyCfg, err := strategyconfig.LoadOrDefault(cfg.StrategyFile)
	if err != nil {
		return nil, fmt.Errorf("load strategy config: %w", err)
	}

	// 4. Market data provider
	provider := marketdata.NewYahooProvider(cfg, log)

	// 5. Flat-file store
	st := store.NewFileStore(cfg.OutputDir, log)

	// 6. Delivery channels
	dispatcher := notify.NewDispatcher(
		notify.NewTelegram(cfg, log),
		notify.NewWebhook(cfg, log),
		log,
	)

	// 7. Universe builder
	scorer := universe.NewScorer(provider, strategyCfg.Universe, log)
	builder := universe.NewBuilder(scorer, cfg.ConfigDir, log)

	// 8. Evaluation engine over the enabled strategies
	strategies := strategy.Discover(strategyCfg, log)
	evaluator := engine.NewEvaluator(
		provider,
		strategies,
		strategyCfg.Signals.ConfidenceFloor,
		strategyCfg.Signals.DefaultLevelPct,
		strategyCfg.Signals.Workers,
		log,
	)

	// 9. Orchestrator and tracker
	orchestrator := brain.NewOrchestrator(builder, evaluator, st, dispatcher, strategyCfg, log)
	trk := tracker.NewTracker(st, provider, dispatcher, strategyCfg.Meta, log)

	log.WithFields(map[string]interface{}{
		"strategies": len(strategies),
		"output_dir": cfg.OutputDir,
		"env":        cfg.Env,
	}).Info("Components initialized")

	return &app{
		cfg:          cfg,
		logger:       log,
		store:        st,
		builder:      builder,
		orchestrator: orchestrator,
		tracker:      trk,
	}, nil
}
