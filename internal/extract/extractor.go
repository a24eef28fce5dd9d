package extract

import (
	"context"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// PatternExtractor is the regex-based FactExtractor. It is the baseline
// extraction backend and the fallback when the AI backend fails.
type PatternExtractor struct {
	dates *DateExtractor
	names *NameExtractor
}

// NewPatternExtractor creates a pattern extractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{
		dates: NewDateExtractor(),
		names: NewNameExtractor(),
	}
}

// Verify interface compliance
var _ driven.FactExtractor = (*PatternExtractor)(nil)

func (p *PatternExtractor) ExtractDates(ctx context.Context, text string, factContext domain.FactContext) ([]time.Time, error) {
	return p.dates.Extract(text, factContext), nil
}

func (p *PatternExtractor) ExtractNames(ctx context.Context, text string) ([]string, error) {
	return p.names.ExtractCompanyNames(text), nil
}
