package driven

import (
	"context"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

// FactExtractor pulls typed facts out of raw filing text. The pattern
// extractor is the baseline implementation; the AI-backed one is optional
// and the scan degrades to patterns when it is unavailable.
type FactExtractor interface {
	// ExtractDates returns the distinct dates relevant to the given context,
	// sorted ascending.
	ExtractDates(ctx context.Context, text string, factContext domain.FactContext) ([]time.Time, error)

	// ExtractNames returns the distinct company names found in the text.
	ExtractNames(ctx context.Context, text string) ([]string, error)
}
