package strategyconfig

import (
	"time"
)

// Config is the full parameter set of the signal pipeline.
// SSOT: every tunable threshold lives here, never in code.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Universe   Universe   `yaml:"universe" json:"universe"`
	Signals    Signals    `yaml:"signals" json:"signals"`
	Notify     Notify     `yaml:"notify" json:"notify"`
	Strategies Strategies `yaml:"strategies" json:"strategies"`
}

// Meta holds identity and the trading session definition
type Meta struct {
	StrategyID   string `yaml:"strategy_id" json:"strategy_id"`
	Version      string `yaml:"version" json:"version"`
	Timezone     string `yaml:"timezone" json:"timezone"`
	MarketWindow Window `yaml:"market_window" json:"market_window"`
}

// Window is a daily trading window, Monday through Friday
type Window struct {
	Start string `yaml:"start" json:"start"` // HH:MM
	End   string `yaml:"end" json:"end"`     // HH:MM
}

// Universe holds the activity scorer parameters
type Universe struct {
	TopN          int     `yaml:"top_n" json:"top_n"`
	LookbackDays  int     `yaml:"lookback_days" json:"lookback_days"`
	VolMultiplier float64 `yaml:"vol_multiplier" json:"vol_multiplier"`
	PriceMovePct  float64 `yaml:"price_move_pct" json:"price_move_pct"`
	Use52W        bool    `yaml:"use_52w" json:"use_52w"`
	Pct52W        float64 `yaml:"pct_52w" json:"pct_52w"`
}

// Signals holds evaluation parameters. ConfidenceFloor is the single
// canonical minimum confidence; nothing else in the codebase hard-codes one.
type Signals struct {
	ConfidenceFloor float64 `yaml:"confidence_floor" json:"confidence_floor"`
	DefaultLevelPct float64 `yaml:"default_level_pct" json:"default_level_pct"`
	Workers         int     `yaml:"workers" json:"workers"`
}

// Notify holds notification throttling parameters
type Notify struct {
	HeartbeatIntervalMinutes int `yaml:"heartbeat_interval_minutes" json:"heartbeat_interval_minutes"`
}

// Strategies selects which registered rule modules run
type Strategies struct {
	Enabled []string `yaml:"enabled" json:"enabled"`
}

// Default returns the shipped parameter set, used when no strategy.yaml
// is present.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "nse_swing_v1",
			Version:    "1.0",
			Timezone:   "Asia/Kolkata",
			MarketWindow: Window{
				Start: "09:15",
				End:   "15:30",
			},
		},
		Universe: Universe{
			TopN:          8,
			LookbackDays:  60,
			VolMultiplier: 1.5,
			PriceMovePct:  3.0,
			Use52W:        true,
			Pct52W:        2.0,
		},
		Signals: Signals{
			ConfidenceFloor: 0.60,
			DefaultLevelPct: 0.015,
			Workers:         4,
		},
		Notify: Notify{
			HeartbeatIntervalMinutes: 60,
		},
		Strategies: Strategies{
			Enabled: []string{
				"macd_crossover",
				"closing_near_highlow",
				"pivot_srl_breakout",
				"orb_trend_filter",
				"market_structure_orderblock",
			},
		},
	}
}

// Location returns the configured market timezone
func (m Meta) Location() *time.Location {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsMarketOpen reports whether t falls inside the Mon-Fri market window.
// Window bounds were validated at load time.
func (m Meta) IsMarketOpen(t time.Time) bool {
	local := t.In(m.Location())
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	startH, startM, err := parseHHMM(m.MarketWindow.Start)
	if err != nil {
		return false
	}
	endH, endM, err := parseHHMM(m.MarketWindow.End)
	if err != nil {
		return false
	}

	minutes := local.Hour()*60 + local.Minute()
	return minutes >= startH*60+startM && minutes <= endH*60+endM
}
