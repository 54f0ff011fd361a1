// Package ratelimit implements fixed-window request limiters.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"eventflow/internal/domain"
)

type window struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	limit   int
	period  time.Duration
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryLimiter returns a process-local limiter allowing limit requests
// per key in each period.
func NewMemoryLimiter(limit int, period time.Duration) domain.RateLimiter {
	return newMemoryLimiter(limit, period, time.Now)
}

func newMemoryLimiter(limit int, period time.Duration, now func() time.Time) *memoryLimiter {
	return &memoryLimiter{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		l.sweep(now)
		w = &window{resetAt: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, nil
}

// sweep drops expired windows. Caller holds mu.
func (l *memoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

type unlimited struct{}

// NewUnlimited returns a limiter that allows every request.
func NewUnlimited() domain.RateLimiter { return unlimited{} }

func (unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
