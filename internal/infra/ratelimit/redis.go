package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the shared fixed-window backend. The increment and the
// expiry are applied in one script so concurrent instances agree on the
// window.
type RedisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

func NewRedisLimiter(addr, password string, db int, now func() time.Time) (*RedisLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if now == nil {
		now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	return &RedisLimiter{client: client, now: now}, nil
}

// NewRedisLimiterWithClient is used by tests to point the limiter at an
// existing client.
func NewRedisLimiterWithClient(client *redis.Client, now func() time.Time) *RedisLimiter {
	if now == nil {
		now = time.Now
	}
	return &RedisLimiter{client: client, now: now}
}

func (r *RedisLimiter) Check(ctx context.Context, identifier string, cfg domain.RateLimitConfig) (domain.RateLimitResult, error) {
	if cfg.MaxRequests <= 0 {
		return domain.RateLimitResult{Success: true, Remaining: 0}, nil
	}
	windowMillis := cfg.Window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	result, err := allowScript.Run(ctx, r.client, []string{"ratelimit:" + identifier}, windowMillis).Result()
	if err != nil {
		return domain.RateLimitResult{}, err
	}
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return domain.RateLimitResult{}, errors.New("unexpected redis rate limit response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return domain.RateLimitResult{}, errors.New("invalid redis counter response")
	}
	ttlMillis, _ := values[1].(int64)
	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	remaining := cfg.MaxRequests - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitResult{
		Success:   current <= int64(cfg.MaxRequests),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
