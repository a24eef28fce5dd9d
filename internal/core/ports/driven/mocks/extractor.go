package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockFactExtractor is a scripted FactExtractor for testing. Tests preload
// the dates and names it should "find" per input text.
type MockFactExtractor struct {
	mu    sync.Mutex
	dates map[string][]time.Time
	names map[string][]string

	// Err, when set, is returned by every call. Used to prove the scan
	// degrades from the AI extractor to the pattern extractor.
	Err error

	// Calls counts extraction invocations across both methods.
	Calls int
}

// NewMockFactExtractor creates an empty mock extractor.
func NewMockFactExtractor() *MockFactExtractor {
	return &MockFactExtractor{
		dates: make(map[string][]time.Time),
		names: make(map[string][]string),
	}
}

// Verify interface compliance
var _ driven.FactExtractor = (*MockFactExtractor)(nil)

// SetDates scripts the dates returned for a given text.
func (m *MockFactExtractor) SetDates(text string, dates []time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates[text] = dates
}

// SetNames scripts the names returned for a given text.
func (m *MockFactExtractor) SetNames(text string, names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[text] = names
}

func (m *MockFactExtractor) ExtractDates(ctx context.Context, text string, factContext domain.FactContext) ([]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.dates[text], nil
}

func (m *MockFactExtractor) ExtractNames(ctx context.Context, text string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.names[text], nil
}

// Reset clears all scripted data and counters.
func (m *MockFactExtractor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates = make(map[string][]time.Time)
	m.names = make(map[string][]string)
	m.Err = nil
	m.Calls = 0
}
