package companieshouse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(3, 5*time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if wait, ok := limiter.tryAcquire(); !ok {
			t.Fatalf("request %d blocked, wait %v", i, wait)
		}
	}
	if _, ok := limiter.tryAcquire(); ok {
		t.Fatal("request over the limit was allowed")
	}

	status := limiter.Status()
	if status.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", status.Remaining)
	}
	if status.Limit != 3 {
		t.Errorf("Limit = %d", status.Limit)
	}
}

func TestRateLimiterWindowRollover(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, 5*time.Minute, func() time.Time { return now })

	limiter.tryAcquire()
	limiter.tryAcquire()
	if _, ok := limiter.tryAcquire(); ok {
		t.Fatal("limit not enforced")
	}

	// Past the window boundary the budget resets in full.
	now = now.Add(5 * time.Minute)
	if _, ok := limiter.tryAcquire(); !ok {
		t.Fatal("request blocked after window rollover")
	}
	status := limiter.Status()
	if status.Remaining != 1 {
		t.Errorf("Remaining = %d, want 1", status.Remaining)
	}
}

func TestRateLimiterBlockedWaitReflectsWindowEnd(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(1, 5*time.Minute, func() time.Time { return now })

	limiter.tryAcquire()
	now = now.Add(2 * time.Minute)
	wait, ok := limiter.tryAcquire()
	if ok {
		t.Fatal("second request allowed")
	}
	if wait != 3*time.Minute {
		t.Errorf("wait = %v, want 3m", wait)
	}
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(1, 5*time.Minute, func() time.Time { return now })

	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := limiter.Wait(ctx)
	if err == nil {
		t.Fatal("Wait returned nil with exhausted budget and expiring context")
	}
	if !errors.Is(err, domain.ErrRateLimitExceeded) {
		t.Errorf("err = %v, want ErrRateLimitExceeded", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want the deadline preserved in the chain", err)
	}
}
