package ratelimit

import (
	"context"
	"log/slog"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

// FallbackLimiter prefers the shared backend and fails open to the local one
// when it errors, so sensitive endpoints keep functioning in degraded
// per-instance mode instead of going dark.
type FallbackLimiter struct {
	primary domain.RateLimiter
	local   domain.RateLimiter
	log     *slog.Logger
}

func NewFallbackLimiter(primary domain.RateLimiter, local domain.RateLimiter, log *slog.Logger) *FallbackLimiter {
	if log == nil {
		log = slog.Default()
	}
	return &FallbackLimiter{primary: primary, local: local, log: log}
}

func (f *FallbackLimiter) Check(ctx context.Context, identifier string, cfg domain.RateLimitConfig) (domain.RateLimitResult, error) {
	if f.primary != nil {
		result, err := f.primary.Check(ctx, identifier, cfg)
		if err == nil {
			return result, nil
		}
		f.log.Warn("shared rate limit backend unavailable, counting locally",
			"identifier", identifier, "error", err)
	}
	return f.local.Check(ctx, identifier, cfg)
}
