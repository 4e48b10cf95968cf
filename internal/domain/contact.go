package domain

import (
	"time"

	"github.com/google/uuid"
)

// End-of-call reasons reported by the call platform. The retry policy table
// keys on these, but unknown reasons are accepted and fall through to the
// default schedule.
const (
	ReasonNoAnswer     = "customer-did-not-answer"
	ReasonBusy         = "customer-busy"
	ReasonVoicemail    = "voicemail"
	ReasonHangup       = "customer-ended-call"
	ReasonPipelineFail = "pipeline-error"
	ReasonCompleted    = "completed"
)

// EndOfCallEvent is the input contract from the call platform: one event per
// terminated call attempt.
type EndOfCallEvent struct {
	PhoneNumber   string
	EndedReason   string
	AttemptsSoFar int
	// Timezone optionally pins the contact's zone; when empty the zone is
	// resolved from the phone number's dialing prefix.
	Timezone string
}

// Contact is the durable record backing retry decisions. All attempt state
// lives here, never inside the decision engine.
type Contact struct {
	ID            uuid.UUID
	PhoneNumber   string
	Timezone      string
	AttemptCount  int
	EndedReason   *string
	LastCallAt    *time.Time
	NextCallAt    *time.Time
	NeedsFollowUp bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CallOutcome is one row of the append-only attempt audit trail.
type CallOutcome struct {
	ID             uuid.UUID
	PhoneNumber    string
	Attempt        int
	EndedReason    string
	Outcome        string
	Timezone       string
	NextCallAt     *time.Time
	FallbackAction string
	RecordedAt     time.Time
}
