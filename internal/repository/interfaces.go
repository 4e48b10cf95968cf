package repository

import (
	"context"
	"time"

	"github.com/acme/intake-call-retry/internal/domain"
	apperrors "github.com/acme/intake-call-retry/pkg/errors"
)

var (
	// ErrNotFound indicates the entity was not located.
	ErrNotFound = apperrors.ErrNotFound
	// ErrConflict indicates a unique constraint violation.
	ErrConflict = apperrors.ErrConflict
)

// ContactRepository owns the durable per-contact retry state. The decision
// engine never persists anything itself; attempt counters round-trip through
// here.
type ContactRepository interface {
	// Ensure returns the contact for the phone number, creating a fresh
	// record with zero attempts when none exists.
	Ensure(ctx context.Context, phoneNumber, timezone string) (*domain.Contact, error)
	Get(ctx context.Context, phoneNumber string) (*domain.Contact, error)
	// RecordRetry stores the outcome of a decision that scheduled another
	// attempt: the new attempt count and when the next call is due.
	RecordRetry(ctx context.Context, phoneNumber string, attemptCount int, endedReason, timezone string, lastCallAt, nextCallAt time.Time) error
	// MarkExhausted flags the contact for manual follow-up and clears any
	// scheduled call.
	MarkExhausted(ctx context.Context, phoneNumber string, attemptCount int, endedReason string) error
	// MarkCompleted ends the retry lifecycle after a successful call.
	MarkCompleted(ctx context.Context, phoneNumber string, attemptCount int, lastCallAt time.Time) error
	// ListDue returns contacts whose scheduled call time has passed.
	ListDue(ctx context.Context, before time.Time, limit int) ([]*domain.Contact, error)
}

// OutcomeStore keeps the append-only audit trail of end-of-call events and
// the decisions taken for them.
type OutcomeStore interface {
	Append(ctx context.Context, outcome domain.CallOutcome) error
	ListByPhone(ctx context.Context, phoneNumber string, limit int) ([]domain.CallOutcome, error)
}
