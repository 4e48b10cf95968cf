package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// FallbackPublisher publishes exhausted-contact fallback instructions.
type FallbackPublisher struct {
	writer *kafka.Writer
}

// NewFallbackPublisher constructs a publisher for the given topic.
func NewFallbackPublisher(k *Kafka, topic string) *FallbackPublisher {
	return &FallbackPublisher{writer: k.NewWriter(topic)}
}

// Publish emits a fallback message to Kafka.
func (p *FallbackPublisher) Publish(ctx context.Context, msg FallbackMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("fallback publisher: marshal message: %w", err)
	}
	record := kafka.Message{
		Key:   []byte(msg.PhoneNumber),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("fallback publisher: write message: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *FallbackPublisher) Close() error {
	return p.writer.Close()
}
