package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter keeps a token bucket per key in process memory. Each bucket
// holds limit tokens and refills at limit per window. A bucket untouched for
// a whole window is full again and gets dropped.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	lim    *rate.Limiter
	limit  int
	window time.Duration
	last   time.Time
}

func NewMemory() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*bucket)}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	return m.allowAt(key, limit, window, time.Now())
}

func (m *MemoryLimiter) allowAt(key string, limit int, window time.Duration, now time.Time) (bool, time.Duration, error) {
	m.mu.Lock()
	if now.Sub(m.swept) >= window {
		m.sweep(now)
	}
	b, ok := m.buckets[key]
	if !ok || b.limit != limit || b.window != window {
		b = &bucket{
			lim:    rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit),
			limit:  limit,
			window: window,
		}
		m.buckets[key] = b
	}
	b.last = now
	m.mu.Unlock()

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay, nil
	}
	return true, 0, nil
}

// sweep drops idle buckets. Callers hold m.mu.
func (m *MemoryLimiter) sweep(now time.Time) {
	for key, b := range m.buckets {
		if now.Sub(b.last) > b.window {
			delete(m.buckets, key)
		}
	}
	m.swept = now
}

func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
