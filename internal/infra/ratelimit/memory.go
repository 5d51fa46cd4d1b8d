package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/NikolaiPoverud/dotty-webshop-sub002/internal/domain"
)

// MemoryLimiter is the per-instance fallback backend. Counts are best-effort
// and local to this process; the shared backend is the correctness-bearing
// path.
type MemoryLimiter struct {
	mu   sync.Mutex
	now  func() time.Time
	data map[string]*bucket

	sweepEvery time.Duration
}

type bucket struct {
	count     int
	windowEnd time.Time
}

type MemoryLimiterConfig struct {
	Now           func() time.Time
	SweepInterval time.Duration
}

func NewMemoryLimiter(cfg MemoryLimiterConfig) *MemoryLimiter {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &MemoryLimiter{
		now:        cfg.Now,
		data:       make(map[string]*bucket),
		sweepEvery: cfg.SweepInterval,
	}
}

func (m *MemoryLimiter) Check(_ context.Context, identifier string, cfg domain.RateLimitConfig) (domain.RateLimitResult, error) {
	if cfg.MaxRequests <= 0 {
		return domain.RateLimitResult{Success: true, Remaining: 0}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.data[identifier]
	if ok && now.After(b.windowEnd) {
		// Expired window: the next request starts a fresh one.
		delete(m.data, identifier)
		ok = false
	}
	if !ok {
		b = &bucket{windowEnd: now.Add(cfg.Window)}
		m.data[identifier] = b
	}

	// Counts saturate at max+1: allow up to max, then deny.
	if b.count <= cfg.MaxRequests {
		b.count++
	}
	remaining := cfg.MaxRequests - b.count
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitResult{
		Success:   b.count <= cfg.MaxRequests,
		Remaining: remaining,
		ResetAt:   b.windowEnd,
	}, nil
}

// StartSweeper evicts expired buckets on a fixed cadence so an abandoned
// identifier does not pin memory for longer than its window. It returns when
// ctx is cancelled. The sweep is idempotent and only ever removes buckets
// whose window has already elapsed.
func (m *MemoryLimiter) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(m.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(m.now())
		}
	}
}

func (m *MemoryLimiter) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for identifier, b := range m.data {
		if now.After(b.windowEnd) {
			delete(m.data, identifier)
		}
	}
}

// size is used by tests to observe eviction.
func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
