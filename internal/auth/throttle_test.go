package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couponhub/dashboard/internal/shared"
)

func newTestThrottle(t *testing.T, limit int) (*Throttle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewThrottle(client, limit, time.Minute), mr
}

func TestThrottleBlocksAfterLimit(t *testing.T) {
	throttle, mr := newTestThrottle(t, 2)
	ctx := context.Background()

	require.NoError(t, throttle.Allow(ctx, "ops@example.com"))
	require.NoError(t, throttle.Allow(ctx, "ops@example.com"))
	assert.ErrorIs(t, throttle.Allow(ctx, "ops@example.com"), shared.ErrRateLimited)
	assert.NoError(t, throttle.Allow(ctx, "other@example.com"))

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, throttle.Allow(ctx, "ops@example.com"))
}

func TestThrottleReset(t *testing.T) {
	throttle, _ := newTestThrottle(t, 1)
	ctx := context.Background()

	require.NoError(t, throttle.Allow(ctx, "k"))
	require.ErrorIs(t, throttle.Allow(ctx, "k"), shared.ErrRateLimited)
	require.NoError(t, throttle.Reset(ctx, "k"))
	assert.NoError(t, throttle.Allow(ctx, "k"))
}

func TestNilThrottleAllows(t *testing.T) {
	var throttle *Throttle
	assert.NoError(t, throttle.Allow(context.Background(), "k"))
}
