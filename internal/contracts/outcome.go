package contracts

// OutcomeKind classifies the result of one pipeline unit (a data fetch, a
// strategy invocation, a notification dispatch). The pipeline branches on
// these tags explicitly instead of swallowing faults at arbitrary depths.
type OutcomeKind string

const (
	// OutcomeAccepted carries a value (e.g. a qualifying signal)
	OutcomeAccepted OutcomeKind = "accepted"

	// OutcomeSkipped means preconditions were not met: no data for the
	// symbol/timeframe, not enough bars, confidence below floor. Never an
	// error; the caller continues with the next unit.
	OutcomeSkipped OutcomeKind = "skipped"

	// OutcomeFaulted means the unit failed unexpectedly. Logged and
	// isolated; never propagated past the originating unit.
	OutcomeFaulted OutcomeKind = "faulted"
)

// EvalOutcome is the tagged result of one (symbol, strategy) invocation
type EvalOutcome struct {
	Symbol   string
	Strategy string
	Kind     OutcomeKind
	Reason   string
	Signal   *Signal // set only when Kind == OutcomeAccepted
}
