package driven

import (
	"context"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// ResultCache stores completed scan results keyed by company number and scan
// fingerprint. A result cached under one fingerprint is never served for a
// scan with a different fingerprint.
type ResultCache interface {
	// Exists reports whether a cached result is present for the key.
	Exists(ctx context.Context, companyNumber, fingerprint string) (bool, error)

	// Get retrieves a cached result.
	// Returns domain.ErrNotFound on a cache miss.
	Get(ctx context.Context, companyNumber, fingerprint string) (*domain.ScanResult, error)

	// Put stores a result, overwriting any previous entry for the key.
	Put(ctx context.Context, companyNumber, fingerprint string, result *domain.ScanResult) error

	// ListCompanies returns company numbers with at least one cached result.
	ListCompanies(ctx context.Context) ([]string, error)

	// ListFingerprints returns the fingerprints cached for one company.
	ListFingerprints(ctx context.Context, companyNumber string) ([]string, error)
}
