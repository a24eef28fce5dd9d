// Package resultcache implements the scan result cache on top of an object
// store, one JSON blob per (company, fingerprint) pair.
package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Layout inside the store: results/{company_number}/{fingerprint}/data.json.
// The fingerprint directory names are human-readable on purpose so the backing
// repository can be browsed directly.
const (
	rootDir  = "results"
	dataFile = "data.json"
)

// Cache stores scan results in an object store.
type Cache struct {
	store  driven.ObjectStore
	logger *slog.Logger
}

// New creates a result cache over the given object store.
func New(store driven.ObjectStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Verify interface compliance
var _ driven.ResultCache = (*Cache)(nil)

func resultPath(companyNumber, fingerprint string) string {
	return rootDir + "/" + companyNumber + "/" + fingerprint + "/" + dataFile
}

// Exists reports whether a cached result is present for the key.
func (c *Cache) Exists(ctx context.Context, companyNumber, fingerprint string) (bool, error) {
	return c.store.Exists(ctx, resultPath(companyNumber, fingerprint))
}

// Get retrieves a cached result. Corrupt payloads are reported as
// ErrCacheUnavailable so callers treat them as a miss.
func (c *Cache) Get(ctx context.Context, companyNumber, fingerprint string) (*domain.ScanResult, error) {
	content, err := c.store.Get(ctx, resultPath(companyNumber, fingerprint))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cache read: %w", domain.ErrCacheUnavailable)
	}

	var result domain.ScanResult
	if err := json.Unmarshal(content, &result); err != nil {
		c.logger.Warn("corrupt cache entry", "company_number", companyNumber, "fingerprint", fingerprint, "error", err)
		return nil, fmt.Errorf("cache entry unreadable: %w", domain.ErrCacheUnavailable)
	}
	return &result, nil
}

// Put stores a result, overwriting any previous entry for the key.
func (c *Cache) Put(ctx context.Context, companyNumber, fingerprint string, result *domain.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	message := fmt.Sprintf("scan result for %s (%s)", companyNumber, fingerprint)
	if err := c.store.Put(ctx, resultPath(companyNumber, fingerprint), content, message); err != nil {
		return fmt.Errorf("cache write: %w", domain.ErrCacheUnavailable)
	}
	return nil
}

// ListCompanies returns company numbers with at least one cached result.
func (c *Cache) ListCompanies(ctx context.Context) ([]string, error) {
	names, err := c.store.List(ctx, rootDir)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache listing: %w", domain.ErrCacheUnavailable)
	}
	return names, nil
}

// ListFingerprints returns the fingerprints cached for one company.
func (c *Cache) ListFingerprints(ctx context.Context, companyNumber string) ([]string, error) {
	names, err := c.store.List(ctx, rootDir+"/"+companyNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache listing: %w", domain.ErrCacheUnavailable)
	}
	return names, nil
}
