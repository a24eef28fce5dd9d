package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockResultCache is an in-memory ResultCache for testing.
type MockResultCache struct {
	mu      sync.Mutex
	results map[string]*domain.ScanResult

	// Err, when set, is returned by every call. The scan treats a cache
	// error as a miss, so tests use this to prove fallback behaviour.
	Err error

	// GetCalls and PutCalls count invocations.
	GetCalls int
	PutCalls int
}

// NewMockResultCache creates an empty mock cache.
func NewMockResultCache() *MockResultCache {
	return &MockResultCache{results: make(map[string]*domain.ScanResult)}
}

// Verify interface compliance
var _ driven.ResultCache = (*MockResultCache)(nil)

func cacheKey(companyNumber, fingerprint string) string {
	return companyNumber + "/" + fingerprint
}

func (m *MockResultCache) Exists(ctx context.Context, companyNumber, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.results[cacheKey(companyNumber, fingerprint)]
	return ok, nil
}

func (m *MockResultCache) Get(ctx context.Context, companyNumber, fingerprint string) (*domain.ScanResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	result, ok := m.results[cacheKey(companyNumber, fingerprint)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return result, nil
}

func (m *MockResultCache) Put(ctx context.Context, companyNumber, fingerprint string, result *domain.ScanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.Err != nil {
		return m.Err
	}
	m.results[cacheKey(companyNumber, fingerprint)] = result
	return nil
}

func (m *MockResultCache) ListCompanies(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	seen := make(map[string]struct{})
	for key := range m.results {
		number, _, _ := strings.Cut(key, "/")
		seen[number] = struct{}{}
	}
	numbers := make([]string, 0, len(seen))
	for number := range seen {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)
	return numbers, nil
}

func (m *MockResultCache) ListFingerprints(ctx context.Context, companyNumber string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var fingerprints []string
	for key := range m.results {
		number, fingerprint, _ := strings.Cut(key, "/")
		if number == companyNumber {
			fingerprints = append(fingerprints, fingerprint)
		}
	}
	sort.Strings(fingerprints)
	return fingerprints, nil
}

// Count returns the number of cached results.
func (m *MockResultCache) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Reset clears all stored data and counters.
func (m *MockResultCache) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]*domain.ScanResult)
	m.Err = nil
	m.GetCalls = 0
	m.PutCalls = 0
}
