package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couponhub/dashboard/internal/shared"
)

// Throttle is a fixed-window attempt counter kept in Redis.
type Throttle struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

// NewThrottle constructs a Throttle allowing limit attempts per window.
func NewThrottle(client *redis.Client, limit int, window time.Duration) *Throttle {
	return &Throttle{client: client, limit: int64(limit), window: window, prefix: "dashboard:login:"}
}

// Allow counts one attempt for key and returns ErrRateLimited once the window is exhausted.
func (t *Throttle) Allow(ctx context.Context, key string) error {
	if t == nil || t.client == nil || t.limit <= 0 {
		return nil
	}
	redisKey := t.prefix + key
	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return fmt.Errorf("auth: throttle: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			return fmt.Errorf("auth: throttle expire: %w", err)
		}
	}
	if count > t.limit {
		return shared.ErrRateLimited
	}
	return nil
}

// Reset clears the counter after a successful attempt.
func (t *Throttle) Reset(ctx context.Context, key string) error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Del(ctx, t.prefix+key).Err()
}
