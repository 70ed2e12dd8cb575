package respool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/respool/semaphore"
	"github.com/hupe1980/respool/workerpool"
)

// ioSemaphore is the admission gate held per resource key.
// Implemented by semaphore.Semaphore and semaphore.Fair.
type ioSemaphore interface {
	Acquire(ctx context.Context) error
	TryAcquire() bool
	Release()
	Resize(newMax int) error
	Max() int
	Available() int
}

// Manager is the admission control facade over CPU and I/O work.
//
// CPU tasks run on a bounded worker pool; I/O tasks are throttled by one
// resizable semaphore per resource key. Both the pool size and individual
// key limits can be changed live without interrupting in-flight work.
type Manager struct {
	defaultIOLimit int

	// poolMu guards only the current/draining pointer lifecycle. It is
	// never held across a blocking pool call.
	poolMu   sync.RWMutex
	current  *workerpool.Pool
	draining *workerpool.Pool

	// regMu guards the key to semaphore map, never a semaphore's own
	// state, so one key's slow waiters cannot block unrelated lookups.
	regMu      sync.RWMutex
	semaphores map[string]ioSemaphore
	ioLimits   map[string]int

	active     *taskSet
	nextTaskID atomic.Uint64

	ioRate *rate.Limiter

	closed atomic.Bool

	fairIO   bool
	resolver Resolver
	metrics  MetricsCollector
	logger   *Logger
}

// New creates a Manager from cfg. Zero-valued cfg fields fall back to
// defaults (see Config); negative values fail with *ErrInvalidConfig.
func New(cfg Config, optFns ...Option) (*Manager, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	o := applyOptions(optFns)

	m := &Manager{
		defaultIOLimit: cfg.DefaultIOLimit,
		current:        workerpool.New(cfg.CPUPoolSize),
		semaphores:     make(map[string]ioSemaphore),
		ioLimits:       cfg.IOLimits,
		active:         newTaskSet(),
		fairIO:         o.fairIO,
		resolver:       o.resolver,
		metrics:        o.metricsCollector,
		logger:         o.logger,
	}
	if o.ioRate > 0 {
		m.ioRate = rate.NewLimiter(o.ioRate, o.ioBurst)
	}

	m.logger.Debug("resource pool manager created",
		"cpu_pool_size", cfg.CPUPoolSize,
		"default_io_limit", cfg.DefaultIOLimit,
		"io_limit_overrides", len(cfg.IOLimits),
	)

	return m, nil
}

// SubmitCPU runs fn on the CPU worker pool and blocks until it completes,
// returning fn's result. ctx bounds queueing only: cancellation while the
// task waits for a worker aborts the submission, but once execution starts
// the task runs to completion.
//
// When called from inside a CPU task (see InWorker), fn runs inline on the
// calling goroutine so a fully occupied pool cannot deadlock on nested
// submissions.
func (m *Manager) SubmitCPU(ctx context.Context, operation string, fn TaskFunc) (any, error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	if InWorker(ctx) {
		return m.runMeasured(ctx, ResourceCPU, operation, time.Now(), fn)
	}
	if m.closed.Load() {
		return nil, ErrClosed
	}

	id := m.nextTaskID.Add(1)
	m.active.add(id)
	defer func() {
		m.active.remove(id)
		m.checkDrain(ctx)
	}()

	m.poolMu.RLock()
	pool := m.current
	m.poolMu.RUnlock()

	queuedAt := time.Now()
	resCh := make(chan taskResult, 1)
	err := pool.Submit(ctx, func() {
		value, err := m.runMeasured(markWorker(ctx), ResourceCPU, operation, queuedAt, fn)
		resCh <- taskResult{value: value, err: err}
	})
	if err != nil {
		return nil, translateError(err)
	}

	res := <-resCh
	return res.value, res.err
}

// SubmitIO runs fn under the semaphore for identifier's resource key and
// blocks until it completes, returning fn's result. ctx bounds admission:
// cancellation while waiting for a permit aborts the submission with
// ctx.Err() and records no metrics. Once admitted, fn runs to completion and
// the permit is released whether fn succeeds, fails or panics.
func (m *Manager) SubmitIO(ctx context.Context, identifier, operation string, fn TaskFunc) (any, error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	if m.closed.Load() {
		return nil, ErrClosed
	}

	key, err := m.resolver.ResolveKey(identifier)
	if err != nil {
		return nil, &ErrResolve{Identifier: identifier, cause: err}
	}

	sem := m.ioSemaphoreFor(key)

	queuedAt := time.Now()
	if err := sem.Acquire(ctx); err != nil {
		return nil, err
	}
	defer sem.Release()

	if m.ioRate != nil {
		if err := m.ioRate.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return m.runMeasured(ctx, ResourceIO, operation, queuedAt, fn)
}

// ResizeCPUPool swaps in a brand-new worker pool of newSize for all future
// CPU submissions. The previous pool drains: it finishes its outstanding
// tasks and is shut down asynchronously once none remain. Returns false if
// newSize <= 0 or the manager is closed.
func (m *Manager) ResizeCPUPool(newSize int) bool {
	if newSize <= 0 {
		return false
	}

	m.poolMu.Lock()
	// Re-checked under the lock: Close holds it while collecting pools, so
	// a pool created here could otherwise escape shutdown.
	if m.closed.Load() {
		m.poolMu.Unlock()
		return false
	}
	superseded := m.draining
	old := m.current
	m.current = workerpool.New(newSize)
	m.draining = old
	oldSize := old.Size()
	m.poolMu.Unlock()

	// Two back-to-back resizes would leave a third pool behind; close the
	// previously draining one now so at most two ever coexist.
	if superseded != nil {
		go superseded.Close()
	}

	m.logger.LogCPUResize(context.Background(), oldSize, newSize)
	m.checkDrain(context.Background())

	return true
}

// ResizeIOLimit sets the concurrency limit for key, resizing its semaphore
// if one exists or creating it at the new limit otherwise. Returns false if
// newLimit <= 0.
func (m *Manager) ResizeIOLimit(key string, newLimit int) bool {
	if newLimit <= 0 {
		return false
	}

	m.regMu.Lock()
	m.ioLimits[key] = newLimit
	sem, ok := m.semaphores[key]
	if !ok {
		m.semaphores[key] = m.newIOSemaphore(newLimit)
	}
	m.regMu.Unlock()

	if ok {
		if err := sem.Resize(newLimit); err != nil {
			return false
		}
	}

	m.logger.LogIOResize(context.Background(), key, newLimit)

	return true
}

// CPUPoolSize returns the size of the current CPU worker pool.
func (m *Manager) CPUPoolSize() int {
	m.poolMu.RLock()
	defer m.poolMu.RUnlock()
	return m.current.Size()
}

// IOLimits returns a snapshot of the configured per-key I/O limits,
// including keys admitted lazily at the default limit.
func (m *Manager) IOLimits() map[string]int {
	m.regMu.RLock()
	defer m.regMu.RUnlock()

	limits := make(map[string]int, len(m.ioLimits))
	for key, limit := range m.ioLimits {
		limits[key] = limit
	}
	return limits
}

// IOStat reports the live state of key's semaphore. ok is false if the key
// has never been used or resized.
func (m *Manager) IOStat(key string) (stat IOStat, ok bool) {
	m.regMu.RLock()
	sem, ok := m.semaphores[key]
	m.regMu.RUnlock()
	if !ok {
		return IOStat{}, false
	}
	return IOStat{Key: key, Limit: sem.Max(), Available: sem.Available()}, true
}

// ActiveTasks returns the number of in-flight CPU tasks.
func (m *Manager) ActiveTasks() int {
	return m.active.len()
}

// Stats returns a point-in-time snapshot of manager state.
func (m *Manager) Stats() Stats {
	m.poolMu.RLock()
	size := m.current.Size()
	draining := m.draining != nil
	m.poolMu.RUnlock()

	m.regMu.RLock()
	keys := len(m.semaphores)
	m.regMu.RUnlock()

	return Stats{
		CPUPoolSize: size,
		Draining:    draining,
		ActiveTasks: m.active.len(),
		IOKeys:      keys,
	}
}

// IOStat is the live state of one resource key's semaphore.
type IOStat struct {
	Key       string
	Limit     int
	Available int
}

// Stats is a point-in-time snapshot of manager state.
type Stats struct {
	CPUPoolSize int
	Draining    bool
	ActiveTasks int
	IOKeys      int
}

// ioSemaphoreFor returns the semaphore for key, creating it at the
// configured limit on first use.
func (m *Manager) ioSemaphoreFor(key string) ioSemaphore {
	m.regMu.RLock()
	sem, ok := m.semaphores[key]
	m.regMu.RUnlock()
	if ok {
		return sem
	}

	m.regMu.Lock()
	defer m.regMu.Unlock()

	// Double-checked: another goroutine may have created it between the
	// read unlock and here.
	if sem, ok := m.semaphores[key]; ok {
		return sem
	}

	limit, ok := m.ioLimits[key]
	if !ok {
		limit = m.defaultIOLimit
		m.ioLimits[key] = limit
	}
	sem = m.newIOSemaphore(limit)
	m.semaphores[key] = sem
	return sem
}

// newIOSemaphore builds a semaphore at limit, which callers have validated
// to be positive.
func (m *Manager) newIOSemaphore(limit int) ioSemaphore {
	if m.fairIO {
		sem, _ := semaphore.NewFair(limit)
		return sem
	}
	sem, _ := semaphore.New(limit)
	return sem
}

// checkDrain discards the draining pool once no CPU tasks remain in flight.
// Called after every CPU task completion and after each pool resize.
func (m *Manager) checkDrain(ctx context.Context) {
	m.poolMu.Lock()
	if m.draining == nil || !m.active.empty() {
		m.poolMu.Unlock()
		return
	}
	old := m.draining
	m.draining = nil
	m.poolMu.Unlock()

	// Close waits for the old pool's queue to empty; keep that off the
	// completing task's goroutine.
	go func() {
		old.Close()
		m.logger.LogDrain(ctx)
	}()
}
