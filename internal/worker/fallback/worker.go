package fallback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/intake-call-retry/internal/app"
	"github.com/acme/intake-call-retry/internal/messaging"
	"github.com/acme/intake-call-retry/internal/queue"
)

// Worker consumes fallback instructions for exhausted contacts and reaches
// them through the SMS channel instead.
type Worker struct {
	container *app.Container
}

// New creates a fallback worker instance.
func New(container *app.Container) *Worker {
	return &Worker{container: container}
}

// Run processes fallback instructions until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	cfg := w.container.Config
	groupID := cfg.Kafka.ConsumerGroupID + "-fallback"
	reader := w.container.Kafka.NewReader(cfg.Kafka.FallbackTopic, groupID)
	defer reader.Close()

	logger := w.container.Logger

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("fallback worker: fetch", zap.Error(err))
			continue
		}

		if err := w.process(ctx, reader, msg); err != nil {
			logger.Error("fallback worker: process", zap.Error(err))
		}
	}
}

func (w *Worker) process(ctx context.Context, reader *kafka.Reader, m kafka.Message) error {
	var fb queue.FallbackMessage
	if err := json.Unmarshal(m.Value, &fb); err != nil {
		_ = reader.CommitMessages(ctx, m)
		return fmt.Errorf("unmarshal fallback message: %w", err)
	}

	tracer := otel.Tracer("intake.fallbackworker")
	sctx, span := tracer.Start(ctx, "fallback.send", trace.WithAttributes(
		attribute.String("contact.id", fb.ContactID.String()),
		attribute.String("fallback_action", fb.FallbackAction),
	))
	defer span.End()

	msg := messaging.Message{
		PhoneNumber: fb.PhoneNumber,
		Body:        "We tried to reach you by phone without success. Please reply to this message to continue your intake.",
	}
	if err := w.container.Providers().Messaging.SendSMS(sctx, msg); err != nil {
		span.RecordError(err)
		// Leave uncommitted for redelivery.
		return fmt.Errorf("send sms: %w", err)
	}

	if err := reader.CommitMessages(sctx, m); err != nil {
		span.RecordError(err)
		w.container.Logger.Error("fallback worker: commit", zap.Error(err))
	}
	return nil
}
