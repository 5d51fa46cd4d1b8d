package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

func setupRedisLimiter(t *testing.T) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLimiterWithClient(client, nil), mr
}

func TestRedisLimiterWindowExhaustion(t *testing.T) {
	limiter, _ := setupRedisLimiter(t)
	cfg := domain.RateLimitConfig{MaxRequests: 3, Window: time.Minute}
	ctx := context.Background()

	for i, wantRemaining := range []int{2, 1, 0} {
		result, err := limiter.Check(ctx, "ip-1", cfg)
		require.NoError(t, err, "check %d", i+1)
		assert.True(t, result.Success, "check %d", i+1)
		assert.Equal(t, wantRemaining, result.Remaining, "check %d", i+1)
	}

	result, err := limiter.Check(ctx, "ip-1", cfg)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Remaining)
	assert.False(t, result.ResetAt.IsZero())
}

func TestRedisLimiterWindowReset(t *testing.T) {
	limiter, mr := setupRedisLimiter(t)
	cfg := domain.RateLimitConfig{MaxRequests: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, "ip-1", cfg)
		require.NoError(t, err)
	}

	mr.FastForward(time.Minute + time.Second)

	result, err := limiter.Check(ctx, "ip-1", cfg)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Remaining)
}

func TestRedisLimiterSetsExpiryOnFirstRequest(t *testing.T) {
	limiter, mr := setupRedisLimiter(t)
	cfg := domain.RateLimitConfig{MaxRequests: 5, Window: 30 * time.Second}

	_, err := limiter.Check(context.Background(), "ip-1", cfg)
	require.NoError(t, err)
	ttl := mr.TTL("ratelimit:ip-1")
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Second)
}

func TestRedisLimiterErrorWhenBackendGone(t *testing.T) {
	limiter, mr := setupRedisLimiter(t)
	mr.Close()

	_, err := limiter.Check(context.Background(), "ip-1", domain.RateLimitConfig{MaxRequests: 3, Window: time.Minute})
	assert.Error(t, err)
}
