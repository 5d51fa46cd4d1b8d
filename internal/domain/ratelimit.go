package domain

import (
	"context"
	"time"
)

// RateLimitConfig is supplied per call site; it is never shared mutable state.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type RateLimitResult struct {
	Success   bool
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Check(ctx context.Context, identifier string, cfg RateLimitConfig) (RateLimitResult, error)
}
