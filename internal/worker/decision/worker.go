package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/intake-call-retry/internal/app"
	"github.com/acme/intake-call-retry/internal/domain"
	"github.com/acme/intake-call-retry/internal/engine"
	"github.com/acme/intake-call-retry/internal/queue"
)

// Worker consumes end-of-call events, runs the decision engine against the
// contact's durable attempt state and dispatches the outcome: a scheduled
// dial instruction or a fallback trigger.
type Worker struct {
	container *app.Container
}

// New creates a decision worker instance.
func New(container *app.Container) *Worker {
	return &Worker{container: container}
}

// Run processes end-of-call events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	cfg := w.container.Config
	eng, err := w.container.Engine()
	if err != nil {
		return err
	}

	reader := w.container.Kafka.NewReader(cfg.Kafka.EndOfCallTopic, cfg.Kafka.ConsumerGroupID)
	defer reader.Close()

	logger := w.container.Logger

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("decision worker: fetch", zap.Error(err))
			continue
		}

		if err := w.process(ctx, eng, reader, msg); err != nil {
			logger.Error("decision worker: process", zap.Error(err))
		}
	}
}

func (w *Worker) process(ctx context.Context, eng *engine.Engine, reader *kafka.Reader, m kafka.Message) error {
	logger := w.container.Logger

	var event queue.EndOfCallMessage
	if err := json.Unmarshal(m.Value, &event); err != nil {
		_ = reader.CommitMessages(ctx, m)
		return fmt.Errorf("unmarshal end-of-call event: %w", err)
	}

	tracer := otel.Tracer("intake.decisionworker")
	sctx, span := tracer.Start(ctx, "decision.decide", trace.WithAttributes(
		attribute.String("event.id", event.EventID.String()),
		attribute.String("ended_reason", event.EndedReason),
	))
	defer span.End()

	repos := w.container.Repositories()

	zone := event.Timezone
	if zone == "" {
		zone = eng.ResolveTimezone(event.PhoneNumber)
	}

	contact, err := repos.Contacts.Ensure(sctx, event.PhoneNumber, zone)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("ensure contact: %w", err)
	}

	decision, err := eng.Decide(sctx, domain.EndOfCallEvent{
		PhoneNumber:   event.PhoneNumber,
		EndedReason:   event.EndedReason,
		AttemptsSoFar: contact.AttemptCount,
		Timezone:      event.Timezone,
	})
	if err != nil {
		// Invalid input cannot succeed on redelivery; commit and drop.
		span.RecordError(err)
		_ = reader.CommitMessages(sctx, m)
		return fmt.Errorf("decide: %w", err)
	}

	switch decision.Outcome {
	case engine.OutcomeRetry:
		if err := w.dispatchRetry(sctx, contact, event, decision.Retry); err != nil {
			span.RecordError(err)
			return err
		}
	case engine.OutcomeExhausted:
		if err := w.dispatchFallback(sctx, contact, event, decision.Exhausted); err != nil {
			span.RecordError(err)
			return err
		}
	}

	if err := reader.CommitMessages(sctx, m); err != nil {
		span.RecordError(err)
		logger.Error("decision worker: commit", zap.Error(err))
	}
	return nil
}

func (w *Worker) dispatchRetry(ctx context.Context, contact *domain.Contact, event queue.EndOfCallMessage, plan *engine.RetryPlan) error {
	repos := w.container.Repositories()

	lastCallAt := event.OccurredAt
	if lastCallAt.IsZero() {
		lastCallAt = time.Now().UTC()
	}

	if err := repos.Contacts.RecordRetry(ctx, contact.PhoneNumber, plan.NextAttempt, event.EndedReason, plan.Timezone, lastCallAt, plan.NextCallAt); err != nil {
		return fmt.Errorf("record retry: %w", err)
	}

	nextCallAt := plan.NextCallAt
	if err := repos.Outcomes.Append(ctx, domain.CallOutcome{
		ID:          uuid.New(),
		PhoneNumber: contact.PhoneNumber,
		Attempt:     plan.NextAttempt,
		EndedReason: event.EndedReason,
		Outcome:     string(engine.OutcomeRetry),
		Timezone:    plan.Timezone,
		NextCallAt:  &nextCallAt,
		RecordedAt:  time.Now().UTC(),
	}); err != nil {
		w.container.Logger.Warn("decision worker: append outcome", zap.Error(err))
	}

	return w.container.Dispatchers().Dial.Dispatch(ctx, queue.DialMessage{
		ContactID:   contact.ID,
		PhoneNumber: contact.PhoneNumber,
		Attempt:     plan.NextAttempt,
		NextCallAt:  plan.NextCallAt,
		Timezone:    plan.Timezone,
		EnqueuedAt:  time.Now().UTC(),
	})
}

func (w *Worker) dispatchFallback(ctx context.Context, contact *domain.Contact, event queue.EndOfCallMessage, plan *engine.ExhaustedPlan) error {
	repos := w.container.Repositories()

	if err := repos.Contacts.MarkExhausted(ctx, contact.PhoneNumber, plan.TotalAttempts, event.EndedReason); err != nil {
		return fmt.Errorf("mark exhausted: %w", err)
	}

	if err := repos.Outcomes.Append(ctx, domain.CallOutcome{
		ID:             uuid.New(),
		PhoneNumber:    contact.PhoneNumber,
		Attempt:        plan.TotalAttempts,
		EndedReason:    event.EndedReason,
		Outcome:        string(engine.OutcomeExhausted),
		Timezone:       contact.Timezone,
		FallbackAction: plan.FallbackAction,
		RecordedAt:     time.Now().UTC(),
	}); err != nil {
		w.container.Logger.Warn("decision worker: append outcome", zap.Error(err))
	}

	return w.container.Dispatchers().Fallback.Publish(ctx, queue.FallbackMessage{
		ContactID:      contact.ID,
		PhoneNumber:    contact.PhoneNumber,
		TotalAttempts:  plan.TotalAttempts,
		FallbackAction: plan.FallbackAction,
		EndedReason:    event.EndedReason,
		EnqueuedAt:     time.Now().UTC(),
	})
}
