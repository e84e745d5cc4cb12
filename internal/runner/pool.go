package runner

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// workerPool manages a pool of workers for running episodes concurrently.
// Each submitted task owns its Episode and random source, so workers never
// share mutable state.
type workerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	running   atomic.Bool
}

// newWorkerPool creates a pool with the specified number of workers.
// If workers is 0, it defaults to runtime.NumCPU().
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &workerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// start starts the worker pool.
func (p *workerPool) start() {
	if p.running.Swap(true) {
		return // Already running
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			task()
		}
	}
}

// submit submits a task, blocking until a worker can accept it.
func (p *workerPool) submit(task func()) bool {
	if !p.running.Load() {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.taskQueue <- task:
		return true
	}
}

// stop closes the queue and waits for all workers to drain it.
func (p *workerPool) stop() {
	if !p.running.Swap(false) {
		return // Not running
	}
	close(p.taskQueue)
	p.wg.Wait()
	p.cancel()
}
