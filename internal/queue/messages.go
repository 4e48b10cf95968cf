package queue

import (
	"time"

	"github.com/google/uuid"
)

// EndOfCallMessage reports one terminated call attempt from the call
// platform. It is the wire form of the engine's input contract.
type EndOfCallMessage struct {
	EventID     uuid.UUID `json:"event_id"`
	PhoneNumber string    `json:"phone_number"`
	EndedReason string    `json:"ended_reason"`
	// Timezone optionally pins the contact's zone, bypassing prefix
	// resolution.
	Timezone   string    `json:"timezone,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DialMessage instructs the dial worker to place the next attempt at
// NextCallAt.
type DialMessage struct {
	ContactID   uuid.UUID `json:"contact_id"`
	PhoneNumber string    `json:"phone_number"`
	Attempt     int       `json:"attempt"`
	NextCallAt  time.Time `json:"next_call_at"`
	Timezone    string    `json:"timezone"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}

// FallbackMessage triggers the alternate contact channel once automatic
// retries are exhausted.
type FallbackMessage struct {
	ContactID      uuid.UUID `json:"contact_id"`
	PhoneNumber    string    `json:"phone_number"`
	TotalAttempts  int       `json:"total_attempts"`
	FallbackAction string    `json:"fallback_action"`
	EndedReason    string    `json:"ended_reason"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}
