package policy

import (
	"fmt"
	"time"
)

// DefaultReason keys the catch-all table entry used for end reasons with no
// explicit mapping. Unknown or future reasons degrade to it rather than
// failing.
const DefaultReason = "default"

// Entry is one row of the retry policy table: an ordered delay schedule (one
// delay per attempt index) and the action taken once attempts run out.
type Entry struct {
	DelaysMinutes  []int
	FallbackAction string
}

// Table maps end-of-call reasons onto retry timing. Pure configuration,
// immutable after construction, safe for concurrent reads.
type Table struct {
	entries     map[string]Entry
	maxAttempts int
}

// New validates and builds the policy table. A default entry is required and
// every delay schedule must be non-empty with positive delays.
func New(maxAttempts int, entries map[string]Entry) (*Table, error) {
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("policy: max attempts must be positive, got %d", maxAttempts)
	}
	if _, ok := entries[DefaultReason]; !ok {
		return nil, fmt.Errorf("policy: a %q entry is required", DefaultReason)
	}
	for reason, e := range entries {
		if len(e.DelaysMinutes) == 0 {
			return nil, fmt.Errorf("policy: reason %q has an empty delay schedule", reason)
		}
		for _, d := range e.DelaysMinutes {
			if d <= 0 {
				return nil, fmt.Errorf("policy: reason %q has non-positive delay %d", reason, d)
			}
		}
		if e.FallbackAction == "" {
			return nil, fmt.Errorf("policy: reason %q has no fallback action", reason)
		}
	}

	copied := make(map[string]Entry, len(entries))
	for reason, e := range entries {
		delays := make([]int, len(e.DelaysMinutes))
		copy(delays, e.DelaysMinutes)
		copied[reason] = Entry{DelaysMinutes: delays, FallbackAction: e.FallbackAction}
	}

	return &Table{entries: copied, maxAttempts: maxAttempts}, nil
}

// DelayForAttempt returns the wait before the attempt at the given zero-based
// index. Indexes beyond the schedule clamp to the last configured delay.
func (t *Table) DelayForAttempt(reason string, attemptIndex int) time.Duration {
	delays := t.lookup(reason).DelaysMinutes
	if attemptIndex < 0 {
		attemptIndex = 0
	}
	if attemptIndex >= len(delays) {
		attemptIndex = len(delays) - 1
	}
	return time.Duration(delays[attemptIndex]) * time.Minute
}

// IsExhausted reports whether the attempt ceiling has been reached.
func (t *Table) IsExhausted(attemptsSoFar int) bool {
	return attemptsSoFar >= t.maxAttempts
}

// FallbackFor returns the fallback action for the reason, falling through to
// the default entry for unknown reasons.
func (t *Table) FallbackFor(reason string) string {
	return t.lookup(reason).FallbackAction
}

// MaxAttempts returns the global attempt ceiling.
func (t *Table) MaxAttempts() int {
	return t.maxAttempts
}

func (t *Table) lookup(reason string) Entry {
	if e, ok := t.entries[reason]; ok {
		return e
	}
	return t.entries[DefaultReason]
}
