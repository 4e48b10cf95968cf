package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/engine/calendar"
	"github.com/acme/intake-call-retry/internal/engine/policy"
	"github.com/acme/intake-call-retry/internal/engine/timezone"
	apperrors "github.com/acme/intake-call-retry/pkg/errors"
)

type recordingObserver struct {
	decisions []Decision
}

func (r *recordingObserver) DecisionComputed(_ context.Context, _ domain.EndOfCallEvent, d Decision) {
	r.decisions = append(r.decisions, d)
}

func newTestEngine(t *testing.T, now time.Time, opts ...Option) *Engine {
	t.Helper()

	resolver, err := timezone.NewResolver("Europe/London", timezone.DefaultTable())
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	cal, err := calendar.New("09:00", "19:00", []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	table, err := policy.New(3, map[string]policy.Entry{
		policy.DefaultReason:      {DelaysMinutes: []int{60, 120, 240}, FallbackAction: "send_sms_fallback"},
		domain.ReasonNoAnswer:     {DelaysMinutes: []int{30, 60, 120}, FallbackAction: "send_sms_fallback"},
		domain.ReasonBusy:         {DelaysMinutes: []int{15, 30}, FallbackAction: "send_sms_fallback"},
		domain.ReasonPipelineFail: {DelaysMinutes: []int{5}, FallbackAction: "alert_operator"},
	})
	if err != nil {
		t.Fatalf("policy: %v", err)
	}

	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return New(resolver, cal, table, opts...)
}

func TestDecideRetryWithinBusinessHours(t *testing.T) {
	// 05:30 UTC Monday is 10:00 in Kabul (+04:30); a 30m delay stays inside
	// the 09:00-19:00 window.
	now := time.Date(2024, 1, 1, 5, 30, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	decision, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+93701234567",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRetry || decision.Retry == nil {
		t.Fatalf("expected retry outcome, got %+v", decision)
	}

	plan := decision.Retry
	if plan.Timezone != "Asia/Kabul" {
		t.Errorf("expected Asia/Kabul, got %s", plan.Timezone)
	}
	if plan.NextAttempt != 1 {
		t.Errorf("expected next attempt 1, got %d", plan.NextAttempt)
	}
	if want := now.Add(30 * time.Minute); !plan.NextCallAt.Equal(want) {
		t.Errorf("expected next call at %v, got %v", want, plan.NextCallAt)
	}
	if plan.AdjustedForBusinessHours {
		t.Error("target inside business hours must not be marked adjusted")
	}
	if plan.DelayApplied != 30*time.Minute {
		t.Errorf("expected 30m delay applied, got %v", plan.DelayApplied)
	}
}

func TestDecideExhaustionBoundary(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)
	event := domain.EndOfCallEvent{PhoneNumber: "+447911123456", EndedReason: domain.ReasonNoAnswer}

	event.AttemptsSoFar = 2
	decision, err := e.Decide(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeRetry {
		t.Fatalf("attempts just below ceiling should still retry, got %s", decision.Outcome)
	}

	event.AttemptsSoFar = 3
	decision, err = e.Decide(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeExhausted || decision.Exhausted == nil {
		t.Fatalf("attempts at ceiling should exhaust, got %+v", decision)
	}
	if decision.Exhausted.TotalAttempts != 3 {
		t.Errorf("expected total attempts 3, got %d", decision.Exhausted.TotalAttempts)
	}
	if decision.Exhausted.FallbackAction != "send_sms_fallback" {
		t.Errorf("expected sms fallback, got %q", decision.Exhausted.FallbackAction)
	}

	// Defensive callers past the ceiling get the same idempotent answer.
	event.AttemptsSoFar = 7
	decision, err = e.Decide(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Outcome != OutcomeExhausted {
		t.Fatalf("attempts beyond ceiling should exhaust, got %s", decision.Outcome)
	}
}

func TestDecideUnknownReasonUsesDefaultSchedule(t *testing.T) {
	// Monday 10:00 London; a 60m default delay stays in hours.
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	decision, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   "carrier-dropped",
		AttemptsSoFar: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Retry.DelayApplied != time.Hour {
		t.Fatalf("expected default 60m delay, got %v", decision.Retry.DelayApplied)
	}
}

func TestDecideAdjustsWeekendTargetToMonday(t *testing.T) {
	// Saturday 2024-01-06 13:30 London. Raw target 14:00 Saturday must move
	// to Monday 09:00 and the reported delay must be the real gap.
	now := time.Date(2024, 1, 6, 13, 30, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	decision, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan := decision.Retry
	if !plan.AdjustedForBusinessHours {
		t.Fatal("weekend target must be marked adjusted")
	}
	want := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) // London is UTC in January
	if !plan.NextCallAt.Equal(want) {
		t.Fatalf("expected Monday 09:00 London, got %v", plan.NextCallAt)
	}
	if plan.DelayApplied != want.Sub(now) {
		t.Fatalf("expected real gap %v, got %v", want.Sub(now), plan.DelayApplied)
	}
	if plan.DelayApplied <= 30*time.Minute {
		t.Fatal("adjusted delay must exceed the nominal table delay")
	}
}

func TestDecideExplicitTimezoneOverridesResolution(t *testing.T) {
	// 20:00 UTC Monday is outside London hours but 15:00 in New York.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	e := newTestEngine(t, now)

	decision, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   domain.ReasonBusy,
		AttemptsSoFar: 0,
		Timezone:      "America/New_York",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Retry.Timezone != "America/New_York" {
		t.Fatalf("expected explicit timezone to win, got %s", decision.Retry.Timezone)
	}
	if decision.Retry.AdjustedForBusinessHours {
		t.Fatal("15:15 New York should not need adjustment")
	}
}

func TestDecideDSTTransitionKeepsWallClock(t *testing.T) {
	// Friday 2024-03-08 23:30 New York; the weekend includes the US
	// spring-forward. Monday 09:00 EDT is 13:00 UTC, one UTC hour earlier
	// than it would be under EST.
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	now := time.Date(2024, 3, 8, 23, 30, 0, 0, newYork)
	e := newTestEngine(t, now)

	decision, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+12125551234",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	local := decision.Retry.NextCallAt.In(newYork)
	if local.Weekday() != time.Monday || local.Hour() != 9 || local.Minute() != 0 {
		t.Fatalf("expected Monday 09:00 wall-clock, got %v", local)
	}
	if utc := decision.Retry.NextCallAt.UTC(); utc.Hour() != 13 {
		t.Fatalf("expected 13:00 UTC under EDT, got %v", utc)
	}
}

func TestDecideRejectsNegativeAttempts(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	_, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: -1,
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecideRejectsUnknownExplicitTimezone(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	_, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: 0,
		Timezone:      "Nowhere/Invalid",
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecideNotifiesObserver(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), WithObserver(obs))

	_, err := e.Decide(context.Background(), domain.EndOfCallEvent{
		PhoneNumber:   "+447911123456",
		EndedReason:   domain.ReasonNoAnswer,
		AttemptsSoFar: 0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs.decisions) != 1 {
		t.Fatalf("expected one observed decision, got %d", len(obs.decisions))
	}
}

func TestIsWithinBusinessHours(t *testing.T) {
	e := newTestEngine(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))

	ok, err := e.IsWithinBusinessHours(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), "Europe/London")
	if err != nil || !ok {
		t.Fatalf("expected Monday 10:00 London callable, got ok=%v err=%v", ok, err)
	}

	ok, err = e.IsWithinBusinessHours(time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC), "Europe/London")
	if err != nil || ok {
		t.Fatalf("expected Saturday not callable, got ok=%v err=%v", ok, err)
	}

	if _, err := e.IsWithinBusinessHours(time.Now(), "Nowhere/Invalid"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error for bad zone, got %v", err)
	}
}
