package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/engine/calendar"
	"github.com/acme/intake-call-retry/internal/engine/policy"
	"github.com/acme/intake-call-retry/internal/engine/timezone"
	apperrors "github.com/acme/intake-call-retry/pkg/errors"
)

// Engine composes timezone resolution, the business-hours calendar and the
// retry policy table into a single next-action decision per end-of-call
// event. It holds no mutable state: attempt counters come in with the event
// and go back out in the decision, so concurrent Decide calls need no
// synchronization.
type Engine struct {
	resolver *timezone.Resolver
	calendar *calendar.Calendar
	policy   *policy.Table
	observer Observer
	now      func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithObserver installs a decision observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock overrides the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds the decision engine from its three validated components.
func New(resolver *timezone.Resolver, cal *calendar.Calendar, table *policy.Table, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		calendar: cal,
		policy:   table,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide produces the single next-action decision for a terminated call
// attempt. It performs no I/O; persisting the new attempt count and acting on
// the decision belong to the caller.
func (e *Engine) Decide(ctx context.Context, event domain.EndOfCallEvent) (Decision, error) {
	if event.AttemptsSoFar < 0 {
		return Decision{}, fmt.Errorf("%w: attempts so far must not be negative, got %d", apperrors.ErrValidation, event.AttemptsSoFar)
	}

	if e.policy.IsExhausted(event.AttemptsSoFar) {
		decision := Decision{
			Outcome: OutcomeExhausted,
			Exhausted: &ExhaustedPlan{
				TotalAttempts:  event.AttemptsSoFar,
				FallbackAction: e.policy.FallbackFor(event.EndedReason),
			},
		}
		e.observer.DecisionComputed(ctx, event, decision)
		return decision, nil
	}

	zone, loc, err := e.location(event)
	if err != nil {
		return Decision{}, err
	}

	now := e.now().UTC()
	delay := e.policy.DelayForAttempt(event.EndedReason, event.AttemptsSoFar)
	target := now.Add(delay)

	adjusted := false
	if !e.calendar.IsCallable(target, loc) {
		target = e.calendar.NextCallable(target, loc)
		adjusted = true
	}

	decision := Decision{
		Outcome: OutcomeRetry,
		Retry: &RetryPlan{
			NextAttempt:              event.AttemptsSoFar + 1,
			NextCallAt:               target.UTC(),
			Timezone:                 zone,
			DelayApplied:             target.Sub(now),
			AdjustedForBusinessHours: adjusted,
		},
	}
	e.observer.DecisionComputed(ctx, event, decision)
	return decision, nil
}

// ResolveTimezone exposes phone-prefix timezone resolution.
func (e *Engine) ResolveTimezone(phoneNumber string) string {
	return e.resolver.Resolve(phoneNumber)
}

// CountryCodeOf exposes the matched dialing prefix for classification.
func (e *Engine) CountryCodeOf(phoneNumber string) (string, bool) {
	return e.resolver.CountryCodeOf(phoneNumber)
}

// IsWithinBusinessHours reports whether the instant is callable in the given
// zone. Exposed standalone for pre-flight checks ahead of first attempts.
func (e *Engine) IsWithinBusinessHours(t time.Time, zone string) (bool, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return false, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, zone)
	}
	return e.calendar.IsCallable(t, loc), nil
}

// MaxAttempts returns the policy table's global attempt ceiling.
func (e *Engine) MaxAttempts() int {
	return e.policy.MaxAttempts()
}

// location picks the explicit event timezone when present, otherwise resolves
// from the phone number. Resolved zones were validated at table construction;
// an unloadable explicit zone is a caller error.
func (e *Engine) location(event domain.EndOfCallEvent) (string, *time.Location, error) {
	zone := event.Timezone
	if zone == "" {
		zone = e.resolver.Resolve(event.PhoneNumber)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", nil, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrValidation, zone)
	}
	return zone, loc, nil
}
