package engine

import (
	"github.com/akverma/signalrunner/internal/contracts"
)

// Reconcile collapses raw signals into one authoritative signal per
// (symbol, side): the highest-confidence instance wins, ties resolved by
// first-seen order. Whole signals are selected, never merged field-wise.
// The operation is idempotent.
func Reconcile(signals []contracts.Signal) []contracts.Signal {
	if len(signals) == 0 {
		return nil
	}

	best := make(map[string]int, len(signals))
	order := make([]string, 0, len(signals))

	for i, sig := range signals {
		key := sig.Key()
		winner, seen := best[key]
		if !seen {
			best[key] = i
			order = append(order, key)
			continue
		}
		// Strict greater-than keeps the first-seen signal on ties.
		if sig.Confidence > signals[winner].Confidence {
			best[key] = i
		}
	}

	out := make([]contracts.Signal, 0, len(order))
	for _, key := range order {
		out = append(out, signals[best[key]])
	}
	return out
}
