package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*ResultStore)(nil)

const (
	resultPrefix = "signalwatch:result:"

	// Results are polled shortly after an async scan; a day is plenty.
	defaultResultTTL = 24 * time.Hour
)

// ResultStore implements driven.ResultStore using Redis.
// Entries expire via Redis TTL.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultStore creates a Redis-backed ResultStore.
func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client, ttl: defaultResultTTL}
}

// Save stores a batch result under its ID.
func (s *ResultStore) Save(ctx context.Context, id string, result *domain.BatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := s.client.Set(ctx, resultPrefix+id, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// Get retrieves a batch result by ID.
func (s *ResultStore) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	data, err := s.client.Get(ctx, resultPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result domain.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Delete removes a batch result.
func (s *ResultStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, resultPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}
