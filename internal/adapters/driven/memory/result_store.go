// Package memory provides in-process fallbacks for the result store and task
// queue, used when no Redis or Postgres backend is configured. Single-node
// only; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

const (
	defaultMaxEntries = 500
	defaultMaxAge     = 24 * time.Hour
)

// Verify interface compliance
var _ driven.ResultStore = (*ResultStore)(nil)

// ResultStore implements driven.ResultStore in process memory with bounded
// size and age.
type ResultStore struct {
	mu         sync.Mutex
	entries    map[string]*storedResult
	maxEntries int
	maxAge     time.Duration

	now func() time.Time
}

type storedResult struct {
	result  *domain.BatchResult
	savedAt time.Time
}

// NewResultStore creates an in-memory ResultStore.
func NewResultStore() *ResultStore {
	return &ResultStore{
		entries:    make(map[string]*storedResult),
		maxEntries: defaultMaxEntries,
		maxAge:     defaultMaxAge,
		now:        time.Now,
	}
}

// Save stores a batch result under its ID, evicting expired and oldest
// entries to stay within bounds.
func (s *ResultStore) Save(ctx context.Context, id string, result *domain.BatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	if len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[id] = &storedResult{result: result, savedAt: s.now()}
	return nil
}

// Get retrieves a batch result by ID.
func (s *ResultStore) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.now().Sub(entry.savedAt) > s.maxAge {
		delete(s.entries, id)
		return nil, domain.ErrNotFound
	}
	return entry.result, nil
}

// Delete removes a batch result.
func (s *ResultStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *ResultStore) pruneLocked() {
	cutoff := s.now().Add(-s.maxAge)
	for id, entry := range s.entries {
		if entry.savedAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}

func (s *ResultStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, entry := range s.entries {
		if oldestID == "" || entry.savedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = entry.savedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
