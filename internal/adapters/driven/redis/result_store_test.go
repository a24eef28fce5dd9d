package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func TestResultStoreRoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	store := NewResultStore(client)
	ctx := context.Background()

	batch := &domain.BatchResult{
		Results: []*domain.ScanResult{
			{CompanyNumber: "00000001", CompanyName: "ACME WIDGETS LIMITED"},
		},
	}
	if err := store.Save(ctx, "result-1", batch); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "result-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Results) != 1 || got.Results[0].CompanyName != "ACME WIDGETS LIMITED" {
		t.Errorf("got = %+v", got)
	}
}

func TestResultStoreMissingID(t *testing.T) {
	client := setupTestRedis(t)
	store := NewResultStore(client)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestResultStoreDelete(t *testing.T) {
	client := setupTestRedis(t)
	store := NewResultStore(client)
	ctx := context.Background()

	store.Save(ctx, "result-1", &domain.BatchResult{})
	if err := store.Delete(ctx, "result-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "result-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v after delete", err)
	}
}
