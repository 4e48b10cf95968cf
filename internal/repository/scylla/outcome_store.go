package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/acme/intake-call-retry/internal/domain"
)

// OutcomeStore keeps the append-only call outcome audit trail in Scylla,
// partitioned by phone number with newest outcomes first.
type OutcomeStore struct {
	session *gocql.Session
}

// NewOutcomeStore creates a new outcome store.
func NewOutcomeStore(session *gocql.Session) *OutcomeStore {
	return &OutcomeStore{session: session}
}

// Append writes one outcome row.
func (s *OutcomeStore) Append(ctx context.Context, outcome domain.CallOutcome) error {
	if err := s.session.Query(`INSERT INTO outcomes_by_phone (phone_number, recorded_at, outcome_id, attempt, ended_reason, outcome, timezone, next_call_at, fallback_action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.PhoneNumber, outcome.RecordedAt, outcome.ID.String(), outcome.Attempt,
		outcome.EndedReason, outcome.Outcome, outcome.Timezone, outcome.NextCallAt, outcome.FallbackAction,
	).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("outcome store: insert: %w", err)
	}
	return nil
}

// ListByPhone returns the most recent outcomes for a phone number.
func (s *OutcomeStore) ListByPhone(ctx context.Context, phoneNumber string, limit int) ([]domain.CallOutcome, error) {
	if limit <= 0 {
		limit = 50
	}

	iter := s.session.Query(`SELECT phone_number, recorded_at, outcome_id, attempt, ended_reason, outcome, timezone, next_call_at, fallback_action
		FROM outcomes_by_phone
		WHERE phone_number = ?
		ORDER BY recorded_at DESC
		LIMIT ?`, phoneNumber, limit).WithContext(ctx).Iter()

	var outcomes []domain.CallOutcome
	var (
		phone      string
		recordedAt time.Time
		idStr      string
		attempt    int
		reason     string
		outcome    string
		zone       string
		nextCallAt *time.Time
		fallback   string
	)

	for iter.Scan(&phone, &recordedAt, &idStr, &attempt, &reason, &outcome, &zone, &nextCallAt, &fallback) {
		id, err := uuid.Parse(idStr)
		if err != nil {
			iter.Close()
			return nil, fmt.Errorf("outcome store: parse outcome_id: %w", err)
		}
		row := domain.CallOutcome{
			ID:             id,
			PhoneNumber:    phone,
			Attempt:        attempt,
			EndedReason:    reason,
			Outcome:        outcome,
			Timezone:       zone,
			FallbackAction: fallback,
			RecordedAt:     recordedAt,
		}
		if nextCallAt != nil {
			t := *nextCallAt
			row.NextCallAt = &t
		}
		outcomes = append(outcomes, row)
		nextCallAt = nil
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("outcome store: iter close: %w", err)
	}
	return outcomes, nil
}
