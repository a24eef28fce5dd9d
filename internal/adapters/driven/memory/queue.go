package memory

import (
	"context"
	"sync"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TaskQueue = (*Queue)(nil)

// Queue implements TaskQueue with a buffered channel. Tasks scheduled for the
// future are delivered once due; retries re-enter through Nack the same way.
type Queue struct {
	mu     sync.Mutex
	ready  chan string
	tasks  map[string]*domain.Task
	closed bool
}

// NewQueue creates an in-memory task queue.
func NewQueue() *Queue {
	return &Queue{
		ready: make(chan string, 1024),
		tasks: make(map[string]*domain.Task),
	}
}

// Enqueue adds a task to the queue for processing.
func (q *Queue) Enqueue(ctx context.Context, task *domain.Task) error {
	q.mu.Lock()
	q.tasks[task.ID] = task
	q.mu.Unlock()

	delay := time.Until(task.ScheduledFor)
	if delay <= 0 {
		q.push(task.ID)
		return nil
	}
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			q.push(task.ID)
		}
	}()
	return nil
}

func (q *Queue) push(taskID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case q.ready <- taskID:
	default:
		// Queue full; task record remains for status queries.
	}
}

// DequeueWithTimeout retrieves the next available task, waiting up to timeout
// seconds. Returns nil, nil when the timeout passes with no tasks.
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	timer := time.NewTimer(time.Duration(timeout) * time.Second)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, nil
	case <-timer.C:
		return nil, nil
	case taskID := <-q.ready:
		q.mu.Lock()
		defer q.mu.Unlock()
		task, ok := q.tasks[taskID]
		if !ok {
			return nil, nil
		}
		task.MarkProcessing()
		return task, nil
	}
}

// Ack acknowledges successful completion of a task.
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	task.MarkCompleted()
	return nil
}

// Nack fails a task, requeueing with backoff while retries remain.
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	q.mu.Lock()
	task, ok := q.tasks[taskID]
	if !ok {
		q.mu.Unlock()
		return domain.ErrNotFound
	}
	if !task.CanRetry() {
		task.MarkFailed(reason)
		q.mu.Unlock()
		return nil
	}
	task.Retry(reason)
	q.mu.Unlock()

	go func() {
		timer := time.NewTimer(time.Until(task.ScheduledFor))
		defer timer.Stop()
		<-timer.C
		q.push(taskID)
	}()
	return nil
}

// GetTask retrieves a task by ID.
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// Stats returns queue statistics.
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	stats := &driven.QueueStats{PendingCount: int64(len(q.ready))}
	for _, task := range q.tasks {
		switch task.Status {
		case domain.TaskStatusProcessing:
			stats.ProcessingCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

// Ping reports queue health; the in-memory queue is always healthy until
// closed.
func (q *Queue) Ping(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return domain.ErrUpstreamUnavailable
	}
	return nil
}

// Close stops accepting tasks.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
