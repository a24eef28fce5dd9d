package redis

import (
	"context"
	"testing"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	queue, err := NewQueue(setupTestRedis(t), "test-worker")
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	return queue
}

func TestQueueEnqueueDequeue(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()

	task := domain.NewScanBatchTask([]string{"00000001"}, domain.ScanOptions{})
	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	got, err := queue.DequeueWithTimeout(ctx, 1)
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if got == nil {
		t.Fatal("no task dequeued")
	}
	if got.ID != task.ID {
		t.Errorf("ID = %q, want %q", got.ID, task.ID)
	}
	if got.Status != domain.TaskStatusProcessing {
		t.Errorf("Status = %q, want processing", got.Status)
	}
	if got.Scan == nil || got.Scan.ResultID == "" {
		t.Errorf("payload = %+v", got.Scan)
	}
}

func TestQueueAckCompletesTask(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()

	task := domain.NewScanBatchTask([]string{"00000001"}, domain.ScanOptions{})
	queue.Enqueue(ctx, task)
	got, _ := queue.DequeueWithTimeout(ctx, 1)

	if err := queue.Ack(ctx, got.ID); err != nil {
		t.Fatalf("Ack: %v", err)
	}

	stored, err := queue.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.Status != domain.TaskStatusCompleted {
		t.Errorf("Status = %q, want completed", stored.Status)
	}
}

func TestQueueNackRetriesThenFails(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()

	task := domain.NewScanBatchTask([]string{"00000001"}, domain.ScanOptions{})
	task.MaxAttempts = 1
	queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if err := queue.Nack(ctx, got.ID, "registry down"); err != nil {
		t.Fatalf("Nack: %v", err)
	}

	stored, err := queue.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.Status != domain.TaskStatusFailed {
		t.Errorf("Status = %q, want failed after exhausted retries", stored.Status)
	}
	if stored.Error != "registry down" {
		t.Errorf("Error = %q", stored.Error)
	}
}

func TestQueueNackRequeuesWhileRetriesRemain(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()

	task := domain.NewScanBatchTask([]string{"00000001"}, domain.ScanOptions{})
	queue.Enqueue(ctx, task)

	got, _ := queue.DequeueWithTimeout(ctx, 1)
	if err := queue.Nack(ctx, got.ID, "transient"); err != nil {
		t.Fatalf("Nack: %v", err)
	}

	stored, err := queue.GetTask(ctx, got.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if stored.Status != domain.TaskStatusPending {
		t.Errorf("Status = %q, want pending for retry", stored.Status)
	}

	stats, err := queue.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.PendingCount != 1 {
		t.Errorf("PendingCount = %d, want 1 (scheduled retry)", stats.PendingCount)
	}
}

func TestQueueGetTaskMissing(t *testing.T) {
	queue := newTestQueue(t)

	_, err := queue.GetTask(context.Background(), "missing")
	if err != domain.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestQueuePing(t *testing.T) {
	queue := newTestQueue(t)
	if err := queue.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
