package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ResultStore = (*ResultStore)(nil)

// Results older than this are pruned opportunistically on save.
const resultRetention = 7 * 24 * time.Hour

// ResultStore implements driven.ResultStore on Postgres.
type ResultStore struct {
	db *DB
}

// NewResultStore creates a Postgres-backed ResultStore.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db}
}

// Save stores a batch result under its ID.
func (s *ResultStore) Save(ctx context.Context, id string, result *domain.BatchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scan_results (id, payload)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, created_at = now()`,
		id, payload)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	// Opportunistic retention sweep; failure is not the caller's problem.
	_, _ = s.db.ExecContext(ctx, `DELETE FROM scan_results WHERE created_at < $1`,
		time.Now().Add(-resultRetention))
	return nil
}

// Get retrieves a batch result by ID.
func (s *ResultStore) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM scan_results WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var result domain.BatchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Delete removes a batch result.
func (s *ResultStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scan_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}
