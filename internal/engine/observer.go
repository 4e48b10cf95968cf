package engine

import (
	"context"

	"github.com/acme/intake-call-retry/internal/domain"
)

// Observer receives a callback per computed decision. Instrumentation hangs
// off this interface instead of package-level counters.
type Observer interface {
	DecisionComputed(ctx context.Context, event domain.EndOfCallEvent, decision Decision)
}

type nopObserver struct{}

func (nopObserver) DecisionComputed(context.Context, domain.EndOfCallEvent, Decision) {}
