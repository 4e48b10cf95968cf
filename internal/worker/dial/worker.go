package dial

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
	"github.com/acme/intake-call-retry/internal/queue"
)

// Worker consumes scheduled dial instructions, waits until their due time and
// places the call. Attempt outcomes feed back into the end-of-call topic so
// the decision loop closes.
type Worker struct {
	container *app.Container
}

// New creates a dial worker instance.
func New(container *app.Container) *Worker {
	return &Worker{container: container}
}

// Run processes dial instructions until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	cfg := w.container.Config
	groupID := cfg.Kafka.ConsumerGroupID + "-dial"
	reader := w.container.Kafka.NewReader(cfg.Kafka.DialTopic, groupID)
	defer reader.Close()

	logger := w.container.Logger

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("dial worker: fetch", zap.Error(err))
			continue
		}

		if err := w.process(ctx, reader, msg); err != nil {
			logger.Error("dial worker: process", zap.Error(err))
		}
	}
}

func (w *Worker) process(ctx context.Context, reader *kafka.Reader, m kafka.Message) error {
	logger := w.container.Logger

	var dial queue.DialMessage
	if err := json.Unmarshal(m.Value, &dial); err != nil {
		_ = reader.CommitMessages(ctx, m)
		return fmt.Errorf("unmarshal dial message: %w", err)
	}

	tracer := otel.Tracer("intake.dialworker")
	sctx, span := tracer.Start(ctx, "dial.place", trace.WithAttributes(
		attribute.String("contact.id", dial.ContactID.String()),
		attribute.Int("attempt", dial.Attempt),
	))
	defer span.End()

	if err := w.sleepUntil(sctx, dial.NextCallAt); err != nil {
		span.RecordError(err)
		return err
	}

	guard := w.container.Guards().Idempotency
	claimed, err := guard.Begin(sctx, dial.PhoneNumber, dial.Attempt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("claim attempt: %w", err)
	}
	if !claimed {
		// Duplicate delivery; another worker already owns this attempt.
		span.SetAttributes(attribute.Bool("attempt.duplicate", true))
		_ = reader.CommitMessages(sctx, m)
		return nil
	}

	cfg := w.container.Config
	timeout := cfg.Dial.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	callCtx, cancel := context.WithTimeout(sctx, timeout)
	result, callErr := w.container.Providers().Telephony.PlaceCall(callCtx, dial)
	cancel()

	if callErr != nil {
		span.RecordError(callErr)
		if relErr := guard.Release(sctx, dial.PhoneNumber, dial.Attempt); relErr != nil {
			logger.Warn("dial worker: release claim", zap.Error(relErr))
		}
		// Leave the message uncommitted so it is redelivered.
		return fmt.Errorf("place call: %w", callErr)
	}

	endedAt := time.Now().UTC()
	if result.Completed {
		if err := w.container.Repositories().Contacts.MarkCompleted(sctx, dial.PhoneNumber, dial.Attempt, endedAt); err != nil {
			span.RecordError(err)
			logger.Error("dial worker: mark completed", zap.Error(err))
		}
	} else {
		event := queue.EndOfCallMessage{
			EventID:     uuid.New(),
			PhoneNumber: dial.PhoneNumber,
			EndedReason: result.EndedReason,
			Timezone:    dial.Timezone,
			OccurredAt:  endedAt,
		}
		if err := w.container.Dispatchers().Events.Publish(sctx, event); err != nil {
			span.RecordError(err)
			return fmt.Errorf("publish end-of-call event: %w", err)
		}
	}

	if err := reader.CommitMessages(sctx, m); err != nil {
		span.RecordError(err)
		logger.Error("dial worker: commit", zap.Error(err))
	}
	return nil
}

func (w *Worker) sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
