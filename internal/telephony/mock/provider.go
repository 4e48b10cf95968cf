package mock

import (
	"context"
	"math/rand"
	"time"

	"github.com/acme/intake-call-retry/internal/config"
	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/queue"
	"github.com/acme/intake-call-retry/internal/telephony"
)

// Provider simulates outbound call behaviour for development environments.
type Provider struct {
	timeout time.Duration
	rng     *rand.Rand
}

// NewProvider constructs a mock provider.
func NewProvider(cfg config.DialConfig) *Provider {
	return &Provider{
		timeout: cfg.RequestTimeout,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PlaceCall simulates a call attempt with a weighted spread of end reasons.
func (p *Provider) PlaceCall(ctx context.Context, msg queue.DialMessage) (telephony.Result, error) {
	duration := time.Duration(1+p.rng.Intn(5)) * time.Second

	select {
	case <-ctx.Done():
		return telephony.Result{EndedReason: domain.ReasonPipelineFail, Duration: duration}, ctx.Err()
	case <-time.After(duration):
	}

	roll := p.rng.Float64()
	switch {
	case roll < 0.5:
		return telephony.Result{EndedReason: domain.ReasonCompleted, Duration: duration, Completed: true}, nil
	case roll < 0.75:
		return telephony.Result{EndedReason: domain.ReasonNoAnswer, Duration: duration}, nil
	case roll < 0.85:
		return telephony.Result{EndedReason: domain.ReasonBusy, Duration: duration}, nil
	case roll < 0.95:
		return telephony.Result{EndedReason: domain.ReasonVoicemail, Duration: duration}, nil
	default:
		return telephony.Result{EndedReason: domain.ReasonPipelineFail, Duration: duration}, nil
	}
}
