package contracts

import (
	"fmt"
	"math"
	"time"
)

// Side is the direction of a recommended trade
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsValid checks the side value
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Category tags a strategy by the horizon it trades
type Category string

const (
	CategoryDaily    Category = "daily"
	CategoryIntraday Category = "intraday"
)

// Signal is a recommended directional trade produced by exactly one
// strategy evaluation. It is immutable after creation; reconciliation
// selects among instances, it never merges fields across them.
// JSON field names are the persisted artifact schema and must not change.
type Signal struct {
	Symbol       string    `json:"Stock"`
	Side         Side      `json:"Side"`
	Entry        float64   `json:"Entry"`
	StopLoss     float64   `json:"StopLoss"`
	Target       float64   `json:"Target"`
	Confidence   float64   `json:"Confidence"`
	Strategy     string    `json:"Strategy"`
	StrategyType Category  `json:"StrategyType,omitempty"`
	Timestamp    time.Time `json:"Timestamp"`
}

// Key returns the reconciliation grouping key (symbol, side)
func (s *Signal) Key() string {
	return fmt.Sprintf("%s|%s", s.Symbol, s.Side)
}

// HasLevels reports whether the strategy populated stop-loss and target
func (s *Signal) HasLevels() bool {
	return s.StopLoss != 0 && s.Target != 0
}

// ApplyDefaultLevels fills missing stop-loss/target from entry using the
// configured percentage (stop = entry -/+ pct, target = entry +/- pct,
// direction dependent on side).
func (s *Signal) ApplyDefaultLevels(pct float64) {
	switch s.Side {
	case SideBuy:
		if s.StopLoss == 0 {
			s.StopLoss = s.Entry * (1 - pct)
		}
		if s.Target == 0 {
			s.Target = s.Entry * (1 + pct)
		}
	case SideSell:
		if s.StopLoss == 0 {
			s.StopLoss = s.Entry * (1 + pct)
		}
		if s.Target == 0 {
			s.Target = s.Entry * (1 - pct)
		}
	}
}

// Validate checks the structural invariants of a signal. Stop-loss and
// target must sit on the correct side of entry relative to Side; callers
// must reject violations rather than forward them.
func (s *Signal) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("signal missing symbol")
	}
	if !s.Side.IsValid() {
		return fmt.Errorf("signal %s: invalid side %q", s.Symbol, s.Side)
	}
	if s.Entry <= 0 {
		return fmt.Errorf("signal %s: entry must be positive, got %v", s.Symbol, s.Entry)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("signal %s: confidence %v out of [0,1]", s.Symbol, s.Confidence)
	}
	if s.Strategy == "" {
		return fmt.Errorf("signal %s: missing strategy name", s.Symbol)
	}

	switch s.Side {
	case SideBuy:
		if s.StopLoss >= s.Entry {
			return fmt.Errorf("signal %s BUY: stop %v not below entry %v", s.Symbol, s.StopLoss, s.Entry)
		}
		if s.Target <= s.Entry {
			return fmt.Errorf("signal %s BUY: target %v not above entry %v", s.Symbol, s.Target, s.Entry)
		}
	case SideSell:
		if s.StopLoss <= s.Entry {
			return fmt.Errorf("signal %s SELL: stop %v not above entry %v", s.Symbol, s.StopLoss, s.Entry)
		}
		if s.Target >= s.Entry {
			return fmt.Errorf("signal %s SELL: target %v not below entry %v", s.Symbol, s.Target, s.Entry)
		}
	}

	return nil
}

// RoundPrices rounds price fields to 2 decimal places for the persistence
// boundary. Confidence keeps 2 decimals as well, matching the log schema.
func (s *Signal) RoundPrices() {
	s.Entry = round2(s.Entry)
	s.StopLoss = round2(s.StopLoss)
	s.Target = round2(s.Target)
	s.Confidence = round2(s.Confidence)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
