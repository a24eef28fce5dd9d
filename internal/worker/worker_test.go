package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven/mocks"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
)

// fakeScanService records scan calls and returns a canned result.
type fakeScanService struct {
	mu     sync.Mutex
	calls  []driving.ScanRequest
	err    error
	result *domain.BatchResult
}

func (f *fakeScanService) Scan(ctx context.Context, req driving.ScanRequest) (*domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.BatchResult{
		Results: []*domain.ScanResult{{CompanyNumber: "00123456"}},
	}, nil
}

func (f *fakeScanService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeScanService) ScanAsync(ctx context.Context, req driving.ScanRequest) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (f *fakeScanService) GetResult(ctx context.Context, resultID string) (*domain.BatchResult, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeScanService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeScanService) Search(ctx context.Context, query, status string, limit int) ([]domain.CompanyRecord, error) {
	return nil, nil
}

func (f *fakeScanService) RateLimit() domain.RateLimitStatus {
	return domain.RateLimitStatus{}
}

func (f *fakeScanService) CachedCompanies(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeScanService) CachedScans(ctx context.Context, companyNumber string) ([]string, error) {
	return nil, nil
}

// waitFor polls until cond is true or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWorker_ProcessesScanBatchTask(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	scan := &fakeScanService{}
	store := mocks.NewMockResultStore()

	task := domain.NewScanBatchTask([]string{"00123456"}, domain.ScanOptions{})
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	w := New(Config{
		TaskQueue:      queue,
		ScanService:    scan,
		ResultStore:    store,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool {
		stored, err := store.Get(context.Background(), task.Scan.ResultID)
		return err == nil && stored != nil
	})

	if scan.callCount() != 1 {
		t.Errorf("expected 1 scan call, got %d", scan.callCount())
	}

	got, _ := queue.GetTask(context.Background(), task.ID)
	if got.Status != domain.TaskStatusCompleted {
		t.Errorf("expected task completed, got %s", got.Status)
	}
}

func TestWorker_NacksFailedTask(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	scan := &fakeScanService{err: errors.New("registry down")}
	store := mocks.NewMockResultStore()

	task := domain.NewScanBatchTask([]string{"00123456"}, domain.ScanOptions{})
	task.MaxAttempts = 1
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	w := New(Config{
		TaskQueue:      queue,
		ScanService:    scan,
		ResultStore:    store,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool {
		got, err := queue.GetTask(context.Background(), task.ID)
		return err == nil && got.Status == domain.TaskStatusFailed
	})

	got, _ := queue.GetTask(context.Background(), task.ID)
	if got.Error == "" {
		t.Error("expected task error to be recorded")
	}
	if store.Count() != 0 {
		t.Error("expected no result stored for failed scan")
	}
}

func TestWorker_RetriesUntilExhausted(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	scan := &fakeScanService{err: errors.New("still down")}
	store := mocks.NewMockResultStore()

	task := domain.NewScanBatchTask([]string{"00123456"}, domain.ScanOptions{})
	task.MaxAttempts = 3
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	w := New(Config{
		TaskQueue:      queue,
		ScanService:    scan,
		ResultStore:    store,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool {
		got, err := queue.GetTask(context.Background(), task.ID)
		return err == nil && got.Status == domain.TaskStatusFailed
	})

	if scan.callCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", scan.callCount())
	}
}

func TestWorker_UnknownTaskType(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	store := mocks.NewMockResultStore()

	task := domain.NewScanBatchTask([]string{"00123456"}, domain.ScanOptions{})
	task.Type = domain.TaskType("mystery")
	task.MaxAttempts = 1
	if err := queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	w := New(Config{
		TaskQueue:      queue,
		ScanService:    &fakeScanService{},
		ResultStore:    store,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer w.Stop()

	waitFor(t, func() bool {
		got, err := queue.GetTask(context.Background(), task.ID)
		return err == nil && got.Status == domain.TaskStatusFailed
	})
}

func TestWorker_StartStopIdempotent(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := New(Config{
		TaskQueue:      queue,
		ScanService:    &fakeScanService{},
		ResultStore:    mocks.NewMockResultStore(),
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second start: %v", err)
	}

	w.Stop()
	w.Stop() // no-op
}

func TestWorker_Health(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	w := New(Config{
		TaskQueue:      queue,
		ScanService:    &fakeScanService{},
		ResultStore:    mocks.NewMockResultStore(),
		DequeueTimeout: 1,
	})

	health := w.Health(context.Background())
	if health.Running {
		t.Error("expected not running before start")
	}
	if !health.QueueHealth {
		t.Error("expected healthy queue")
	}

	queue.Err = errors.New("queue down")
	health = w.Health(context.Background())
	if health.QueueHealth {
		t.Error("expected unhealthy queue")
	}
}
