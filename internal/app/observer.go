package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/engine"
	"github.com/acme/intake-call-retry/pkg/logger"
)

// logObserver reports computed decisions through structured logs. The engine
// itself carries no instrumentation state.
type logObserver struct {
	logger *logger.Logger
}

func newLogObserver(lg *logger.Logger) *logObserver {
	return &logObserver{logger: lg.Named("decision")}
}

func (o *logObserver) DecisionComputed(_ context.Context, event domain.EndOfCallEvent, decision engine.Decision) {
	fields := []zap.Field{
		zap.String("phone", event.PhoneNumber),
		zap.String("ended_reason", event.EndedReason),
		zap.Int("attempts_so_far", event.AttemptsSoFar),
		zap.String("outcome", string(decision.Outcome)),
	}
	switch decision.Outcome {
	case engine.OutcomeRetry:
		fields = append(fields,
			zap.Int("next_attempt", decision.Retry.NextAttempt),
			zap.Time("next_call_at", decision.Retry.NextCallAt),
			zap.String("timezone", decision.Retry.Timezone),
			zap.Duration("delay_applied", decision.Retry.DelayApplied),
			zap.Bool("adjusted", decision.Retry.AdjustedForBusinessHours),
		)
	case engine.OutcomeExhausted:
		fields = append(fields,
			zap.Int("total_attempts", decision.Exhausted.TotalAttempts),
			zap.String("fallback_action", decision.Exhausted.FallbackAction),
		)
	}
	o.logger.Info("decision computed", fields...)
}
