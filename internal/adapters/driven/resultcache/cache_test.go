package resultcache

import (
	"context"
	"errors"
	"testing"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven/mocks"
)

func TestRoundTrip(t *testing.T) {
	store := mocks.NewMockObjectStore()
	cache := New(store, nil)
	ctx := context.Background()

	result := &domain.ScanResult{CompanyNumber: "00000001", CompanyName: "ACME WIDGETS LIMITED"}
	if err := cache.Put(ctx, "00000001", domain.FingerprintAllDirectors, result); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := cache.Get(ctx, "00000001", domain.FingerprintAllDirectors)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CompanyName != "ACME WIDGETS LIMITED" {
		t.Errorf("CompanyName = %q", got.CompanyName)
	}

	// Different fingerprint is a distinct key.
	if _, err := cache.Get(ctx, "00000001", domain.FingerprintActiveOnly); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for other fingerprint", err)
	}
}

func TestGetMiss(t *testing.T) {
	cache := New(mocks.NewMockObjectStore(), nil)

	_, err := cache.Get(context.Background(), "00000001", domain.FingerprintAllDirectors)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreFailureIsCacheUnavailable(t *testing.T) {
	store := mocks.NewMockObjectStore()
	store.Err = errors.New("network down")
	cache := New(store, nil)

	_, err := cache.Get(context.Background(), "00000001", domain.FingerprintAllDirectors)
	if !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Fatalf("err = %v, want ErrCacheUnavailable", err)
	}
}

func TestCorruptEntryIsCacheUnavailable(t *testing.T) {
	store := mocks.NewMockObjectStore()
	ctx := context.Background()
	store.Put(ctx, "results/00000001/Directors/data.json", []byte("{not json"), "seed")
	cache := New(store, nil)

	_, err := cache.Get(ctx, "00000001", domain.FingerprintAllDirectors)
	if !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Fatalf("err = %v, want ErrCacheUnavailable", err)
	}
}

func TestListings(t *testing.T) {
	store := mocks.NewMockObjectStore()
	cache := New(store, nil)
	ctx := context.Background()

	cache.Put(ctx, "00000001", domain.FingerprintAllDirectors, &domain.ScanResult{CompanyNumber: "00000001"})
	cache.Put(ctx, "00000001", domain.FingerprintActiveOnly, &domain.ScanResult{CompanyNumber: "00000001"})
	cache.Put(ctx, "00000002", domain.FingerprintAllDirectors, &domain.ScanResult{CompanyNumber: "00000002"})

	companies, err := cache.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(companies) != 2 {
		t.Errorf("companies = %v", companies)
	}

	fingerprints, err := cache.ListFingerprints(ctx, "00000001")
	if err != nil {
		t.Fatalf("ListFingerprints: %v", err)
	}
	if len(fingerprints) != 2 {
		t.Errorf("fingerprints = %v", fingerprints)
	}
}
