package contracts

import "time"

// RunState is the terminal state of one orchestrator invocation
type RunState string

const (
	RunStateClosed    RunState = "CLOSED"    // outside trading hours
	RunStateCompleted RunState = "COMPLETED" // evaluate → reconcile → persist → notify done
)

// Watchlist is the ordered, duplicate-free symbol set considered in one
// run: the configured core set first, then the scorer's dynamic picks.
// Rebuilt every run; persisted as the most recent snapshot.
type Watchlist []string

// Contains checks membership
func (w Watchlist) Contains(symbol string) bool {
	for _, s := range w {
		if s == symbol {
			return true
		}
	}
	return false
}

// RunResult is the final deduplicated signal set for one invocation plus
// bookkeeping. Consumed by persistence and notification; never re-read by
// the same run.
type RunResult struct {
	State       RunState       `json:"state"`
	GeneratedAt time.Time      `json:"generated_at"`
	Watchlist   Watchlist      `json:"watchlist"`
	Signals     []Signal       `json:"signals"`
	RawCount    int            `json:"raw_count"`    // accepted signals before reconciliation
	PerStrategy map[string]int `json:"per_strategy"` // accepted signal count per strategy
	Skipped     int            `json:"skipped"`      // symbols/timeframes with no data
	Faults      int            `json:"faults"`       // strategy invocations that failed
	DryRun      bool           `json:"dry_run"`
}

// Count returns the number of final signals
func (r *RunResult) Count() int {
	return len(r.Signals)
}
