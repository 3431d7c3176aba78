// Package worker runs background jobs (reconciliation passes, event log cleanup) on a
// fixed set of goroutines.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// Named is implemented by jobs that want a readable name in the logs
type Named interface {
	Name() string
}

// Pool represents a worker pool
type Pool struct {
	workers    int
	jobQueue   chan Job
	jobTimeout time.Duration
	wg         sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, queueSize),
		jobTimeout: DefaultJobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobQueue:
			p.run(id, job)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(id int, job Job) {
	ctx := logger.WithRequestID(p.ctx, logger.GenerateRequestID())
	ctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	log := logger.FromContext(ctx).With("worker", id, "job", jobName(job))
	start := time.Now()
	if err := job.Process(ctx); err != nil {
		log.Error(LogMsgWorkerJobFailed, "error", err, "duration", time.Since(start))
		return
	}
	log.Debug(LogMsgWorkerJobCompleted, "duration", time.Since(start))
}

// Enqueue adds a job to the queue, blocking until there is room or the pool stops
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobQueue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TryEnqueue adds a job without blocking. It returns false when the queue is full.
func (p *Pool) TryEnqueue(job Job) bool {
	select {
	case p.jobQueue <- job:
		return true
	default:
		logger.FromContext(p.ctx).Warn(LogMsgWorkerQueueFull, "job", jobName(job))
		return false
	}
}

// Stop cancels running jobs and waits for the workers to exit. Queued jobs are discarded.
func (p *Pool) Stop() {
	p.once.Do(func() {
		logger.FromContext(p.ctx).Info(LogMsgWorkerPoolStopping, "workers", p.workers)
		p.cancel()
	})
	p.wg.Wait()
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", job)
}
