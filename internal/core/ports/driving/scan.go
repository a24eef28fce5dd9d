package driving

import (
	"context"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// ScanRequest describes one scan invocation, synchronous or queued.
type ScanRequest struct {
	// CompanyNumbers are the raw company numbers to scan. They are
	// normalised before use; an unparseable number produces a per-company
	// error entry, never a request failure, as long as at least one number
	// is present.
	CompanyNumbers []string `json:"company_numbers"`

	// Options control extraction, caching, and network traversal.
	Options domain.ScanOptions `json:"options"`
}

// ScanService is the driving port for registry scans. HTTP handlers and the
// background worker both consume it.
type ScanService interface {
	// Scan runs a batch scan to completion and returns the full result.
	Scan(ctx context.Context, req ScanRequest) (*domain.BatchResult, error)

	// ScanAsync enqueues a batch scan and returns the task ID and the
	// result ID under which the outcome will be stored.
	ScanAsync(ctx context.Context, req ScanRequest) (taskID, resultID string, err error)

	// GetResult retrieves a stored batch result by ID.
	GetResult(ctx context.Context, resultID string) (*domain.BatchResult, error)

	// GetTask retrieves a queued task by ID for status checking.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// Search finds companies in the registry by name or number, optionally
	// filtered by company status.
	Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error)

	// RateLimit reports current registry request-quota usage.
	RateLimit() domain.RateLimitStatus

	// CachedCompanies lists company numbers with at least one cached scan.
	CachedCompanies(ctx context.Context) ([]string, error)

	// CachedScans lists the scan fingerprints cached for one company.
	CachedScans(ctx context.Context, companyNumber string) ([]string, error)
}
