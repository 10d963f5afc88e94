package internal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// ErrSyncClosed is returned when submitting to a stopped queue
var ErrSyncClosed = errors.New("sync queue closed")

// ErrSyncQueueFull is returned when the queue has no room within the
// enqueue timeout
var ErrSyncQueueFull = errors.New("sync queue full")

// SyncJob is one best-effort remote mutation
type SyncJob func(ctx context.Context) error

// SyncConfig tunes the best-effort sync worker. Zero values get defaults.
type SyncConfig struct {
	QueueSize      int
	EnqueueTimeout time.Duration
	MaxAttempts    int
	BaseBackoff    time.Duration
}

type queuedSyncJob struct {
	ctx context.Context
	job SyncJob
}

// SyncQueue runs remote dashboard mutations on a single worker goroutine,
// preserving submission order. Jobs retry with exponential backoff up to
// MaxAttempts; a job that still fails is logged and dropped, never rolled
// back into local state. Local mutations must never wait on it.
type SyncQueue struct {
	cfg   SyncConfig
	queue chan queuedSyncJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

// NewSyncQueue constructs the queue and starts its worker
func NewSyncQueue(cfg SyncConfig) *SyncQueue {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 128
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}

	q := &SyncQueue{
		cfg:   cfg,
		queue: make(chan queuedSyncJob, cfg.QueueSize),
		done:  make(chan struct{}),
	}
	q.wg.Add(1)
	go q.runWorker()
	return q
}

// Submit enqueues a job. It returns ErrSyncClosed after Stop,
// ErrSyncQueueFull when no room frees up within the enqueue timeout, or
// ctx.Err() if the caller's context ends first.
func (q *SyncQueue) Submit(ctx context.Context, job SyncJob) error {
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrSyncClosed
	}
	select {
	case <-q.done:
		return ErrSyncClosed
	default:
	}

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q.queue <- queuedSyncJob{ctx: ctx, job: job}:
		syncSubmittedTotal.Inc()
		return nil
	case <-q.done:
		return ErrSyncClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		syncDroppedTotal.Inc()
		return ErrSyncQueueFull
	}
}

// Barrier enqueues a no-op job and waits until it runs, guaranteeing every
// previously submitted job has completed. Used by tests and shutdown.
func (q *SyncQueue) Barrier(ctx context.Context) error {
	done := make(chan struct{})
	err := q.Submit(ctx, func(context.Context) error {
		close(done)
		return nil
	})
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop drains the queue and waits for the worker to finish. Idempotent.
func (q *SyncQueue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	close(q.done)
	q.wg.Wait()
}

func (q *SyncQueue) runWorker() {
	defer q.wg.Done()
	for {
		select {
		case qj := <-q.queue:
			q.runJob(qj)
		case <-q.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case qj := <-q.queue:
					q.runJob(qj)
				default:
					return
				}
			}
		}
	}
}

func (q *SyncQueue) runJob(qj queuedSyncJob) {
	defer func() {
		if r := recover(); r != nil {
			syncFailedTotal.Inc()
			LogError("Sync job panicked: %v", r)
		}
	}()

	if qj.ctx.Err() != nil {
		LogDebug("Skipping sync job with cancelled context")
		return
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = q.cfg.BaseBackoff
	retries := backoff.WithMaxRetries(policy, uint64(q.cfg.MaxAttempts-1))

	err := backoff.Retry(func() error {
		if qj.ctx.Err() != nil {
			return backoff.Permanent(qj.ctx.Err())
		}
		return qj.job(qj.ctx)
	}, backoff.WithContext(retries, qj.ctx))
	if err != nil {
		syncFailedTotal.Inc()
		LogWarn("Best-effort remote sync failed, keeping local state: %v", err)
	}
}
