package telephony

import (
	"context"
	"time"

	"github.com/acme/intake-call-retry/internal/queue"
)

// Result captures the outcome of a placed call.
type Result struct {
	// EndedReason is the platform's end-of-call reason code.
	EndedReason string
	Duration    time.Duration
	Completed   bool
}

// Provider abstracts the outbound call platform.
type Provider interface {
	PlaceCall(ctx context.Context, msg queue.DialMessage) (Result, error)
}
