package mocks

import (
	"context"
	"sync"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockResultStore is an in-memory ResultStore for testing.
type MockResultStore struct {
	mu      sync.Mutex
	results map[string]*domain.BatchResult

	// Err, when set, is returned by every call.
	Err error
}

// NewMockResultStore creates an empty mock result store.
func NewMockResultStore() *MockResultStore {
	return &MockResultStore{results: make(map[string]*domain.BatchResult)}
}

// Verify interface compliance
var _ driven.ResultStore = (*MockResultStore)(nil)

func (m *MockResultStore) Save(ctx context.Context, id string, result *domain.BatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.results[id] = result
	return nil
}

func (m *MockResultStore) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	result, ok := m.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return result, nil
}

func (m *MockResultStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.results, id)
	return nil
}

// Count returns the number of stored results.
func (m *MockResultStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// Reset clears all stored data.
func (m *MockResultStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]*domain.BatchResult)
	m.Err = nil
}
