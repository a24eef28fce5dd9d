package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockObjectStore is an in-memory ObjectStore for testing.
type MockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Err, when set, is returned by every call.
	Err error
}

// NewMockObjectStore creates an empty mock object store.
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{objects: make(map[string][]byte)}
}

// Verify interface compliance
var _ driven.ObjectStore = (*MockObjectStore)(nil)

func (m *MockObjectStore) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.objects[path]
	return ok, nil
}

func (m *MockObjectStore) Get(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	content, ok := m.objects[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return content, nil
}

func (m *MockObjectStore) Put(ctx context.Context, path string, content []byte, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.objects[path] = content
	return nil
}

// List returns the entry names directly under dir, directories deduplicated.
func (m *MockObjectStore) List(ctx context.Context, dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	prefix := strings.TrimSuffix(dir, "/") + "/"
	seen := make(map[string]struct{})
	for path := range m.objects {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		name, _, _ := strings.Cut(rest, "/")
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of stored objects.
func (m *MockObjectStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Reset clears all stored data.
func (m *MockObjectStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
	m.Err = nil
}
