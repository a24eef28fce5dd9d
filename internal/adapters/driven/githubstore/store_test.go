package githubstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func testStore(t *testing.T, handler http.Handler) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewStore(StoreConfig{
		Token:   "test-token",
		Repo:    "example/results",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(StoreConfig{Repo: "a/b"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing token: err = %v", err)
	}
	if _, err := NewStore(StoreConfig{Token: "t", Repo: "no-slash"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad repo: err = %v", err)
	}
}

func TestGetDecodesBase64(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/example/results/contents/results/00000001/data.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		json.NewEncoder(w).Encode(contentResponse{
			Type:     "file",
			SHA:      "abc123",
			Content:  base64.StdEncoding.EncodeToString([]byte(`{"ok":true}`)) + "\n",
			Encoding: "base64",
		})
	}))

	content, err := store.Get(context.Background(), "results/00000001/data.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(content) != `{"ok":true}` {
		t.Errorf("content = %s", content)
	}
}

func TestGetNotFound(t *testing.T) {
	store := testStore(t, http.NotFoundHandler())

	_, err := store.Get(context.Background(), "missing.json")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	exists, err := store.Exists(context.Background(), "missing.json")
	if err != nil || exists {
		t.Errorf("Exists = %v, %v; want false, nil", exists, err)
	}
}

func TestPutSendsSHAForExistingFile(t *testing.T) {
	var putBody map[string]string
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(contentResponse{
				Type:     "file",
				SHA:      "oldsha",
				Content:  base64.StdEncoding.EncodeToString([]byte("old")),
				Encoding: "base64",
			})
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		}
	}))

	err := store.Put(context.Background(), "results/data.json", []byte("new"), "update result")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if putBody["sha"] != "oldsha" {
		t.Errorf("sha = %q, want oldsha", putBody["sha"])
	}
	if putBody["message"] != "update result" {
		t.Errorf("message = %q", putBody["message"])
	}
	decoded, _ := base64.StdEncoding.DecodeString(putBody["content"])
	if string(decoded) != "new" {
		t.Errorf("content = %q", decoded)
	}
}

func TestPutCreatesNewFileWithoutSHA(t *testing.T) {
	var putBody map[string]string
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putBody)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		}
	}))

	if err := store.Put(context.Background(), "fresh.json", []byte("x"), "create"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := putBody["sha"]; ok {
		t.Error("sha sent for a new file")
	}
}

func TestPutRetriesWithFullBody(t *testing.T) {
	var attempts int
	var retriedBody map[string]string
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.NotFound(w, r)
		case http.MethodPut:
			attempts++
			if attempts == 1 {
				http.Error(w, "flake", http.StatusInternalServerError)
				return
			}
			json.NewDecoder(r.Body).Decode(&retriedBody)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{}`))
		}
	}))

	if err := store.Put(context.Background(), "retry.json", []byte("payload"), "update"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	decoded, err := base64.StdEncoding.DecodeString(retriedBody["content"])
	if err != nil {
		t.Fatalf("decode retried content: %v", err)
	}
	if string(decoded) != "payload" {
		t.Errorf("retried content = %q, want %q", decoded, "payload")
	}
}

func TestList(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"type": "dir", "name": "00000001"},
			{"type": "dir", "name": "00000002"}
		]`))
	}))

	names, err := store.List(context.Background(), "results")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "00000001" {
		t.Errorf("names = %v", names)
	}
}

func TestServerErrorWrapsCacheUnavailable(t *testing.T) {
	store := testStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	_, err := store.Get(context.Background(), "any.json")
	if !errors.Is(err, domain.ErrCacheUnavailable) {
		t.Fatalf("err = %v, want ErrCacheUnavailable", err)
	}
}
