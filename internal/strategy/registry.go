package strategy

import (
	"sort"

	"github.com/akverma/signalrunner/internal/contracts"
	"github.com/akverma/signalrunner/internal/strategyconfig"
	"github.com/akverma/signalrunner/pkg/logger"
)

// Strategy is the rule-module contract. GenerateSignal must be pure given
// its inputs, return (nil, nil) when preconditions are not met, and — when
// it does emit a signal — populate at least symbol, side, entry, confidence
// and strategy name. Stop-loss/target may be left zero for the engine's
// default policy to fill.
type Strategy interface {
	// Name is the stable identifier used in logs and artifacts
	Name() string

	// Category tags the trading horizon
	Category() contracts.Category

	// RequiredIndicators lists indicator columns the data fusion layer
	// must precompute for this module. May be empty.
	RequiredIndicators() []string

	// GenerateSignal evaluates one symbol against its multi-timeframe view
	GenerateSignal(symbol string, view contracts.MultiTimeframeView) (*contracts.Signal, error)
}

// All returns every registered rule module. Discovery is an explicit
// registration list; adding a strategy means adding it here and to the
// enabled list in strategy.yaml.
func All(cfg *strategyconfig.Config) []Strategy {
	loc := cfg.Meta.Location()
	window := cfg.Meta.MarketWindow

	return []Strategy{
		NewMACDCrossover(),
		NewClosingNearHighLow(),
		NewPivotSRLBreakout(),
		NewORBTrendFilter(loc, window.Start),
		NewMarketStructureOrderBlock(),
	}
}

// Discover returns the registered modules filtered to the enabled list.
// Names in the list without a matching module are logged and ignored, not
// errored.
func Discover(cfg *strategyconfig.Config, log *logger.Logger) []Strategy {
	available := make(map[string]Strategy)
	for _, s := range All(cfg) {
		available[s.Name()] = s
	}

	discovered := make([]Strategy, 0, len(cfg.Strategies.Enabled))
	for _, name := range cfg.Strategies.Enabled {
		s, ok := available[name]
		if !ok {
			log.WithField("strategy", name).Warn("Enabled strategy not registered, ignoring")
			continue
		}
		discovered = append(discovered, s)
	}

	return discovered
}

// RequiredIndicators aggregates the indicator requirements of the given
// modules into a sorted, duplicate-free set for the data fusion boundary.
func RequiredIndicators(strategies []Strategy) []string {
	set := make(map[string]struct{})
	for _, s := range strategies {
		for _, name := range s.RequiredIndicators() {
			set[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
