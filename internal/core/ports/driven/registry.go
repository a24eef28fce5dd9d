package driven

import (
	"context"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// RegistryClient talks to the Companies House public data API.
// Implementations own rate limiting: every call blocks until the request
// quota allows it or the context is cancelled.
type RegistryClient interface {
	// Profile retrieves the registered profile for a company.
	// Returns domain.ErrNotFound if the company number is unknown.
	Profile(ctx context.Context, companyNumber string) (*domain.CompanyRecord, error)

	// Officers retrieves the officers of a company.
	// activeOnly restricts the listing to current appointments.
	Officers(ctx context.Context, companyNumber string, activeOnly bool) ([]domain.Director, error)

	// Appointments retrieves every company appointment held by an officer.
	Appointments(ctx context.Context, officerID string) ([]domain.Appointment, error)

	// FilingHistory retrieves filing metadata for a company, newest first.
	FilingHistory(ctx context.Context, companyNumber string, categories []string) ([]domain.FilingDocument, error)

	// DocumentText fetches the text content of a filing document.
	DocumentText(ctx context.Context, doc *domain.FilingDocument) (string, error)

	// Search finds companies by name or number, up to limit results.
	// A non-empty status restricts results to companies in that status.
	Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error)

	// RateLimit reports current request-quota usage without consuming quota.
	RateLimit() domain.RateLimitStatus
}
