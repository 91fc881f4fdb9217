// Package worker drains the signup queue into the subscriber store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/okian/herofan/internal/adapters/mq/queue"
	"github.com/okian/herofan/internal/adapters/repository"
	"github.com/okian/herofan/internal/domain/model"
	"github.com/okian/herofan/pkg/logger"
	"github.com/okian/herofan/pkg/metrics"
)

const (
	defaultMaxTries      = 3
	defaultRetryInterval = 50 * time.Millisecond
	poolShutdownTimeout  = 30 * time.Second
)

// Store persists subscriptions.
type Store interface {
	Save(ctx context.Context, sub model.Subscription) error
	Count(ctx context.Context) (int, error)
}

// Notifier tells a new subscriber they are signed up.
type Notifier interface {
	Welcome(ctx context.Context, sub model.Subscription) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
	Len() int
}

// Worker stores and welcomes one signup at a time.
type Worker struct {
	queue    Queue
	store    Store
	notifier Notifier
	name     string

	maxTries      uint
	retryInterval time.Duration

	logger logger.Logger
}

// New creates a worker.
func New(q Queue, store Store, notifier Notifier, opts ...Option) *Worker {
	w := &Worker{
		queue:         q,
		store:         store,
		notifier:      notifier,
		name:          "worker",
		maxTries:      defaultMaxTries,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until the queue is closed and drained or ctx is done.
func (w *Worker) Run(ctx context.Context) {
	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			metrics.UpdateQueueSize(w.queue.Len())
			if err := w.Process(ctx, job); err != nil {
				w.logger.Error(ctx, "signup failed",
					logger.String("subscription", job.Subscription.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Process stores and welcomes one signup. A duplicate in the store is not an
// error and skips the welcome.
func (w *Worker) Process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Milliseconds()))
	}()

	sub := job.Subscription
	err := w.retry(ctx, func() error {
		err := w.store.Save(ctx, sub)
		if errors.Is(err, repository.ErrDuplicate) {
			return backoff.Permanent(err)
		}
		return err
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		w.logger.Debug(ctx, "subscriber already stored", logger.String("subscription", sub.ID))
		return nil
	case err != nil:
		metrics.RecordWorkerError("store")
		return fmt.Errorf("store subscription %s: %w", sub.ID, err)
	}

	if n, err := w.store.Count(ctx); err == nil {
		metrics.UpdateSubscribers(n)
	}

	if err := w.retry(ctx, func() error { return w.notifier.Welcome(ctx, sub) }); err != nil {
		metrics.RecordWorkerError("notify")
		return fmt.Errorf("welcome subscription %s: %w", sub.ID, err)
	}
	return nil
}

func (w *Worker) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.retryInterval
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	}, backoff.WithBackOff(b), backoff.WithMaxTries(w.maxTries))
	return err
}

// Pool runs several workers over one queue.
type Pool struct {
	workers []*Worker
	queue   interface{ Close() error }
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates workerCount workers. Values below one mean one worker.
func NewPool(workerCount int, q *queue.InMemoryQueue, store Store, notifier Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = New(q, store, notifier, wopts...)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// LogNotifier logs welcomes instead of sending mail.
type LogNotifier struct {
	Logger logger.Logger
}

// Welcome implements Notifier.
func (n LogNotifier) Welcome(ctx context.Context, sub model.Subscription) error {
	l := n.Logger
	if l == nil {
		l = logger.Get().Named("newsletter")
	}
	l.Info(ctx, "welcome sent", logger.String("subscription", sub.ID), logger.String("email", sub.Email))
	return nil
}
