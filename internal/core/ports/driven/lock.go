package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates work across worker instances, such as promoting
// retried tasks back onto the queue exactly once.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if acquired, false if already held by another instance.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release releases a named lock if held by this instance.
	// Safe to call even if the lock is not held or has expired.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a currently held lock.
	Extend(ctx context.Context, name string, ttl time.Duration) error
}
