package driven

import (
	"context"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// ResultStore holds batch results for retrieval by ID, typically to pick up
// the output of an async scan. Implementations can use Redis (preferred),
// Postgres, or in-process memory; entries are expected to expire.
type ResultStore interface {
	// Save stores a batch result under its ID.
	Save(ctx context.Context, id string, result *domain.BatchResult) error

	// Get retrieves a batch result by ID.
	// Returns domain.ErrNotFound if absent or expired.
	Get(ctx context.Context, id string) (*domain.BatchResult, error)

	// Delete removes a batch result.
	Delete(ctx context.Context, id string) error
}
