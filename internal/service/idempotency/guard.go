package idempotency

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Guard enforces at-most-once in-flight dialing per contact attempt using
// Redis keys. The decision engine computes but does not deduplicate; this is
// the caller-side invariant it documents.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuard constructs an idempotency guard.
func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Guard{client: client, ttl: ttl}
}

// Begin claims the contact+attempt slot. Returns false when another worker
// already holds it, meaning this attempt is a duplicate delivery.
func (g *Guard) Begin(ctx context.Context, phoneNumber string, attempt int) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.key(phoneNumber, attempt), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency begin: %w", err)
	}
	return ok, nil
}

// Release frees the slot after a failed dispatch so a redelivery can claim
// it. Successful attempts keep the key until TTL expiry to absorb duplicate
// deliveries.
func (g *Guard) Release(ctx context.Context, phoneNumber string, attempt int) error {
	if err := g.client.Del(ctx, g.key(phoneNumber, attempt)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (g *Guard) key(phoneNumber string, attempt int) string {
	return fmt.Sprintf("intake:dial:%s:%d", phoneNumber, attempt)
}
