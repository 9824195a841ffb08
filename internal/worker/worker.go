package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrClosed = errors.New("worker pool closed")

type ProcessFunc[J any] func(ctx context.Context, job J) error

// Pool runs queued jobs on a fixed number of goroutines.
type Pool[J any] struct {
	name       string
	numWorkers int
	jobs       chan J
	processor  ProcessFunc[J]
	wg         sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	done     chan struct{}
	stopOnce sync.Once
}

func NewPool[J any](name string, numWorkers, bufferSize int, processor ProcessFunc[J]) *Pool[J] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Pool[J]{
		name:       name,
		numWorkers: numWorkers,
		jobs:       make(chan J, bufferSize),
		processor:  processor,
		done:       make(chan struct{}),
	}
}

func (p *Pool[J]) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool[J]) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			if err := p.processor(ctx, job); err != nil {
				slog.Warn("job failed", "pool", p.name, "worker", id, "error", err)
			}
		}
	}
}

// Submit blocks until the job is queued, ctx is done or the pool stops.
func (p *Pool[J]) Submit(ctx context.Context, job J) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrClosed
	}
}

// TrySubmit queues the job only if there is room. It reports whether the job
// was accepted.
func (p *Pool[J]) TrySubmit(job J) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

func (p *Pool[J]) Pending() int {
	return len(p.jobs)
}

// Stop rejects new jobs, lets workers drain the queue and waits for them.
func (p *Pool[J]) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)

		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
