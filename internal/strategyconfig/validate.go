package strategyconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate checks parameter ranges and cross-field consistency
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return fmt.Errorf("meta.strategy_id is required")
	}

	if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
		return fmt.Errorf("meta.timezone: %w", err)
	}

	startH, startM, err := parseHHMM(cfg.Meta.MarketWindow.Start)
	if err != nil {
		return fmt.Errorf("meta.market_window.start: %w", err)
	}
	endH, endM, err := parseHHMM(cfg.Meta.MarketWindow.End)
	if err != nil {
		return fmt.Errorf("meta.market_window.end: %w", err)
	}
	if startH*60+startM >= endH*60+endM {
		return fmt.Errorf("meta.market_window: start %s must precede end %s",
			cfg.Meta.MarketWindow.Start, cfg.Meta.MarketWindow.End)
	}

	if cfg.Universe.TopN <= 0 {
		return fmt.Errorf("universe.top_n must be positive, got %d", cfg.Universe.TopN)
	}
	if cfg.Universe.VolMultiplier <= 0 {
		return fmt.Errorf("universe.vol_multiplier must be positive, got %v", cfg.Universe.VolMultiplier)
	}
	if cfg.Universe.PriceMovePct <= 0 {
		return fmt.Errorf("universe.price_move_pct must be positive, got %v", cfg.Universe.PriceMovePct)
	}

	if cfg.Signals.ConfidenceFloor < 0 || cfg.Signals.ConfidenceFloor > 1 {
		return fmt.Errorf("signals.confidence_floor %v out of [0,1]", cfg.Signals.ConfidenceFloor)
	}
	if cfg.Signals.DefaultLevelPct <= 0 || cfg.Signals.DefaultLevelPct >= 1 {
		return fmt.Errorf("signals.default_level_pct %v out of (0,1)", cfg.Signals.DefaultLevelPct)
	}
	if cfg.Signals.Workers <= 0 {
		return fmt.Errorf("signals.workers must be positive, got %d", cfg.Signals.Workers)
	}

	if cfg.Notify.HeartbeatIntervalMinutes <= 0 {
		return fmt.Errorf("notify.heartbeat_interval_minutes must be positive, got %d",
			cfg.Notify.HeartbeatIntervalMinutes)
	}

	if len(cfg.Strategies.Enabled) == 0 {
		return fmt.Errorf("strategies.enabled must list at least one strategy")
	}

	return nil
}

// parseHHMM parses a "HH:MM" clock string
func parseHHMM(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}

	return h, m, nil
}
