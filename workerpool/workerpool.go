package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Submit after the pool has been closed.
var ErrClosed = errors.New("worker pool closed")

// Pool runs CPU-bound task closures on a fixed set of goroutines. The
// bounded work channel gives natural backpressure: submitters block once
// the buffer fills, instead of spawning a goroutine per task.
type Pool struct {
	size     int
	workCh   chan func()
	stopCh   chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool
	submitMu sync.RWMutex
}

// New creates a pool with size workers. A size of zero or less defaults to
// runtime.GOMAXPROCS(0), the natural bound for CPU-bound work.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		size:   size,
		workCh: make(chan func(), size*2), // 2x buffer for pipelining
		stopCh: make(chan struct{}),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// worker executes task closures from the work channel.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// Finish queued work before exiting.
			for {
				select {
				case task, ok := <-p.workCh:
					if !ok {
						return
					}
					task()
				default:
					return
				}
			}
		case task, ok := <-p.workCh:
			if !ok {
				return
			}
			task()
		}
	}
}

// Submit enqueues a task for execution and returns once it is queued.
//
// Error conditions:
//   - Returns ErrClosed if the pool is closed
//   - Returns ctx.Err() if ctx is done before the task is queued
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.submitMu.RLock()
	defer p.submitMu.RUnlock()

	if p.closed.Load() {
		return ErrClosed
	}

	select {
	case p.workCh <- task:
		return nil
	case <-p.stopCh:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Close shuts the pool down gracefully: queued tasks run to completion,
// then workers exit. Close blocks until all workers have stopped and is
// safe to call more than once.
func (p *Pool) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}

	p.submitMu.Lock()
	close(p.stopCh)
	close(p.workCh)
	p.submitMu.Unlock()

	p.wg.Wait()
}
