package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/reporter/internal/logging"
)

// Loop is the host's single-goroutine cooperative scheduler.
type Loop struct {
	queue  *taskQueue
	logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for loop progress and task panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates an idle loop. Call Run to start processing.
func NewLoop(opts ...Option) *Loop {
	l := &Loop{
		queue:  newTaskQueue(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post schedules fn to run after every task already queued.
// Returns false if the loop has been stopped.
func (l *Loop) Post(name string, fn func(ctx context.Context)) bool {
	return l.queue.Enqueue(Task{Name: name, Fn: fn})
}

// Len returns the number of tasks waiting to run.
func (l *Loop) Len() int {
	return l.queue.Len()
}

// Stop closes the loop. Tasks already queued still run; Run returns once
// the queue drains.
func (l *Loop) Stop() {
	l.queue.Close()
}

// Run processes tasks until the context is cancelled or Stop is called and
// the queue has drained.
//
// CRITICAL: Must be called from exactly ONE goroutine.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("scheduler loop starting")

	for {
		if task, ok := l.queue.TryDequeue(); ok {
			l.runTask(ctx, task)
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("scheduler loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel is closed on Stop, so this fires
			// immediately once the queue is closed.
			if l.queue.Len() == 0 && l.closed() {
				l.logger.Debug("scheduler loop stopping: queue closed")
				return nil
			}
		}
	}
}

func (l *Loop) closed() bool {
	l.queue.mu.Lock()
	defer l.queue.mu.Unlock()
	return l.queue.closed
}

// runTask executes one task, containing panics so the loop keeps going.
func (l *Loop) runTask(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked",
				"task", task.Name,
				"error", fmt.Sprint(r),
			)
		}
	}()

	l.logger.Debug("running task", "task", task.Name)
	task.Fn(ctx)
}
