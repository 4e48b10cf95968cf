package engine

import "time"

// Outcome tags the two decision variants so callers can match exhaustively
// instead of probing optional fields.
type Outcome string

const (
	OutcomeRetry     Outcome = "retry"
	OutcomeExhausted Outcome = "exhausted"
)

// Decision is the engine's sole output: either a scheduled retry or an
// exhausted verdict with a fallback action. Created fresh per invocation and
// never mutated.
type Decision struct {
	Outcome   Outcome
	Retry     *RetryPlan
	Exhausted *ExhaustedPlan
}

// RetryPlan schedules the next attempt.
type RetryPlan struct {
	NextAttempt int
	NextCallAt  time.Time
	Timezone    string
	// DelayApplied is the real gap between decision time and NextCallAt,
	// which exceeds the nominal table delay whenever the target was pushed
	// into business hours.
	DelayApplied             time.Duration
	AdjustedForBusinessHours bool
}

// ExhaustedPlan terminates automatic retries.
type ExhaustedPlan struct {
	TotalAttempts  int
	FallbackAction string
}
