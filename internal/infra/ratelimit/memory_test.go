package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

func TestMemoryLimiterWindowExhaustion(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: fixedClock(&now)})
	cfg := domain.RateLimitConfig{MaxRequests: 3, Window: time.Minute}

	for i, wantRemaining := range []int{2, 1, 0} {
		result, err := limiter.Check(context.Background(), "ip-1", cfg)
		if err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if !result.Success {
			t.Fatalf("check %d: expected success", i+1)
		}
		if result.Remaining != wantRemaining {
			t.Fatalf("check %d: remaining = %d, want %d", i+1, result.Remaining, wantRemaining)
		}
	}

	result, err := limiter.Check(context.Background(), "ip-1", cfg)
	if err != nil {
		t.Fatalf("fourth check: %v", err)
	}
	if result.Success {
		t.Fatalf("fourth check: expected denial")
	}
	if result.Remaining != 0 {
		t.Fatalf("fourth check: remaining = %d, want 0", result.Remaining)
	}
	if !result.ResetAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("fourth check: resetAt = %v, want %v", result.ResetAt, now.Add(time.Minute))
	}
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: fixedClock(&now)})
	cfg := domain.RateLimitConfig{MaxRequests: 3, Window: time.Minute}

	for i := 0; i < 4; i++ {
		if _, err := limiter.Check(context.Background(), "ip-1", cfg); err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
	}

	now = now.Add(time.Minute + time.Millisecond)
	result, err := limiter.Check(context.Background(), "ip-1", cfg)
	if err != nil {
		t.Fatalf("post-reset check: %v", err)
	}
	if !result.Success {
		t.Fatalf("post-reset check: expected success")
	}
	if result.Remaining != 2 {
		t.Fatalf("post-reset check: remaining = %d, want 2", result.Remaining)
	}
}

func TestMemoryLimiterIndependentIdentifiers(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: fixedClock(&now)})
	cfg := domain.RateLimitConfig{MaxRequests: 1, Window: time.Minute}

	first, _ := limiter.Check(context.Background(), "ip-1", cfg)
	second, _ := limiter.Check(context.Background(), "ip-2", cfg)
	if !first.Success || !second.Success {
		t.Fatalf("distinct identifiers must not share a counter")
	}
	denied, _ := limiter.Check(context.Background(), "ip-1", cfg)
	if denied.Success {
		t.Fatalf("expected denial for exhausted identifier")
	}
}

func TestMemoryLimiterSweepEvictsExpiredOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: fixedClock(&now)})

	short := domain.RateLimitConfig{MaxRequests: 5, Window: time.Second}
	long := domain.RateLimitConfig{MaxRequests: 5, Window: time.Hour}
	limiter.Check(context.Background(), "short-lived", short)
	limiter.Check(context.Background(), "long-lived", long)

	limiter.sweep(now.Add(2 * time.Second))
	if got := limiter.size(); got != 1 {
		t.Fatalf("after sweep: %d buckets, want 1", got)
	}
	// Re-entry on an already-swept state changes nothing.
	limiter.sweep(now.Add(2 * time.Second))
	if got := limiter.size(); got != 1 {
		t.Fatalf("after repeat sweep: %d buckets, want 1", got)
	}
}

func TestMemoryLimiterDeniedCountSaturates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: fixedClock(&now)})
	cfg := domain.RateLimitConfig{MaxRequests: 2, Window: time.Minute}

	for i := 0; i < 10; i++ {
		limiter.Check(context.Background(), "ip-1", cfg)
	}
	limiter.mu.Lock()
	count := limiter.data["ip-1"].count
	limiter.mu.Unlock()
	if count != cfg.MaxRequests+1 {
		t.Fatalf("count = %d, want saturation at %d", count, cfg.MaxRequests+1)
	}
}
