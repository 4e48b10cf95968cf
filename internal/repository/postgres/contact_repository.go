package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/repository"
)

// ContactRepository persists contact retry state in Postgres.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository creates a new repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

type contactRow struct {
	ID            uuid.UUID  `db:"id"`
	PhoneNumber   string     `db:"phone_number"`
	Timezone      string     `db:"timezone"`
	AttemptCount  int        `db:"attempt_count"`
	EndedReason   *string    `db:"ended_reason"`
	LastCallAt    *time.Time `db:"last_call_time"`
	NextCallAt    *time.Time `db:"next_call_scheduled"`
	NeedsFollowUp bool       `db:"needs_followup"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const contactColumns = `id, phone_number, timezone, attempt_count, ended_reason, last_call_time, next_call_scheduled, needs_followup, created_at, updated_at`

// Ensure fetches the contact, inserting a fresh zero-attempt record when the
// phone number is unknown.
func (r *ContactRepository) Ensure(ctx context.Context, phoneNumber, timezone string) (*domain.Contact, error) {
	now := time.Now().UTC()
	row := contactRow{}
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO contacts (id, phone_number, timezone, attempt_count, needs_followup, created_at, updated_at)
		VALUES ($1, $2, $3, 0, FALSE, $4, $4)
		ON CONFLICT (phone_number) DO UPDATE SET updated_at = contacts.updated_at
		RETURNING `+contactColumns,
		uuid.New(), phoneNumber, timezone, now,
	)
	if err != nil {
		return nil, fmt.Errorf("contacts: ensure: %w", err)
	}
	return row.toDomain(), nil
}

// Get retrieves a contact by phone number.
func (r *ContactRepository) Get(ctx context.Context, phoneNumber string) (*domain.Contact, error) {
	row := contactRow{}
	err := r.db.GetContext(ctx, &row, `SELECT `+contactColumns+` FROM contacts WHERE phone_number = $1`, phoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contacts: get: %w", err)
	}
	return row.toDomain(), nil
}

// RecordRetry advances the attempt counter and schedules the next call.
func (r *ContactRepository) RecordRetry(ctx context.Context, phoneNumber string, attemptCount int, endedReason, timezone string, lastCallAt, nextCallAt time.Time) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE contacts
			SET attempt_count = $2,
			    ended_reason = $3,
			    timezone = $4,
			    last_call_time = $5,
			    next_call_scheduled = $6,
			    needs_followup = FALSE,
			    updated_at = $7
			WHERE phone_number = $1`,
			phoneNumber, attemptCount, endedReason, timezone, lastCallAt, nextCallAt, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("contacts: record retry: %w", err)
		}
		return requireUpdate(res)
	})
}

// MarkExhausted flags the contact for manual follow-up once automatic retries
// have run out.
func (r *ContactRepository) MarkExhausted(ctx context.Context, phoneNumber string, attemptCount int, endedReason string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET attempt_count = $2,
		    ended_reason = $3,
		    next_call_scheduled = NULL,
		    needs_followup = TRUE,
		    updated_at = $4
		WHERE phone_number = $1`,
		phoneNumber, attemptCount, endedReason, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("contacts: mark exhausted: %w", err)
	}
	return requireUpdate(res)
}

// MarkCompleted closes out the retry lifecycle after a successful call.
func (r *ContactRepository) MarkCompleted(ctx context.Context, phoneNumber string, attemptCount int, lastCallAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET attempt_count = $2,
		    ended_reason = $3,
		    last_call_time = $4,
		    next_call_scheduled = NULL,
		    needs_followup = FALSE,
		    updated_at = $5
		WHERE phone_number = $1`,
		phoneNumber, attemptCount, domain.ReasonCompleted, lastCallAt, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("contacts: mark completed: %w", err)
	}
	return requireUpdate(res)
}

// ListDue returns contacts whose next scheduled call is at or before the
// given instant, soonest first.
func (r *ContactRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]*domain.Contact, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE next_call_scheduled IS NOT NULL AND next_call_scheduled <= $1
		ORDER BY next_call_scheduled ASC
		LIMIT $2`,
		before, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("contacts: list due: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		row := contactRow{}
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("contacts: scan: %w", err)
		}
		contacts = append(contacts, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("contacts: rows err: %w", err)
	}
	return contacts, nil
}

func requireUpdate(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("contacts: rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (row contactRow) toDomain() *domain.Contact {
	return &domain.Contact{
		ID:            row.ID,
		PhoneNumber:   row.PhoneNumber,
		Timezone:      row.Timezone,
		AttemptCount:  row.AttemptCount,
		EndedReason:   row.EndedReason,
		LastCallAt:    row.LastCallAt,
		NextCallAt:    row.NextCallAt,
		NeedsFollowUp: row.NeedsFollowUp,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
