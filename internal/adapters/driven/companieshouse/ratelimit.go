package companieshouse

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// Companies House allows 600 requests per 5-minute window per key.
const (
	defaultRateLimit  = 600
	defaultRateWindow = 5 * time.Minute
)

// RateLimiter enforces a fixed-window request budget. Wait blocks until a
// request slot is available or the context is cancelled; the window resets
// wholesale rather than sliding, matching how the registry accounts usage.
type RateLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	windowStart time.Time
	count       int

	// now is replaceable for tests.
	now func() time.Time
}

// NewRateLimiter creates a limiter with the registry's published budget.
func NewRateLimiter() *RateLimiter {
	return newRateLimiter(defaultRateLimit, defaultRateWindow, time.Now)
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		now:    now,
	}
}

// Wait blocks until a request slot is available and consumes it.
// Returns domain.ErrRateLimitExceeded wrapped in the context error cause if
// the context ends first.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, ok := l.tryAcquire()
		if ok {
			return nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %w", domain.ErrRateLimitExceeded, ctx.Err())
		case <-timer.C:
		}
	}
}

// tryAcquire consumes a slot if one is free, otherwise returns how long to
// wait before the window rolls over.
func (l *RateLimiter) tryAcquire() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.count = 0
	}
	if l.count < l.limit {
		l.count++
		return 0, true
	}
	return l.windowStart.Add(l.window).Sub(now), false
}

// Status reports the current window's usage without consuming a slot.
func (l *RateLimiter) Status() domain.RateLimitStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	count := l.count
	reset := l.windowStart.Add(l.window)
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		count = 0
		reset = now.Add(l.window)
	}
	return domain.RateLimitStatus{
		Limit:         l.limit,
		Remaining:     l.limit - count,
		Reset:         reset,
		WindowSeconds: int(l.window / time.Second),
	}
}
