package respool

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// TaskFunc is a unit of work submitted to a Manager. The context passed in
// derives from the submission context; CPU tasks additionally carry the
// in-worker marker consulted by InWorker.
type TaskFunc func(ctx context.Context) (any, error)

type taskResult struct {
	value any
	err   error
}

type workerCtxKey struct{}

// markWorker tags ctx as executing on a CPU pool worker.
func markWorker(ctx context.Context) context.Context {
	return context.WithValue(ctx, workerCtxKey{}, true)
}

// InWorker reports whether ctx belongs to a task already running on a CPU
// pool worker. SubmitCPU uses it to run nested submissions inline instead of
// deadlocking a fully occupied pool; callers can use it to make the same
// decision themselves.
func InWorker(ctx context.Context) bool {
	marked, _ := ctx.Value(workerCtxKey{}).(bool)
	return marked
}

// runSafely executes fn, converting a panic into *ErrTaskPanic so a
// misbehaving task cannot take down a pool worker.
func runSafely(ctx context.Context, fn TaskFunc) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ErrTaskPanic{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn(ctx)
}

// runMeasured executes fn on the current goroutine and records one metrics
// entry for it, successful or not.
func (m *Manager) runMeasured(ctx context.Context, resource ResourceType, operation string, queuedAt time.Time, fn TaskFunc) (any, error) {
	startedAt := time.Now()
	value, err := runSafely(ctx, fn)

	tm := TaskMetrics{
		Resource:      resource,
		Operation:     operation,
		QueueTime:     startedAt.Sub(queuedAt),
		ExecutionTime: time.Since(startedAt),
		Err:           err,
	}
	m.record(ctx, tm)
	m.logger.LogTask(ctx, tm)

	return value, err
}

// record hands metrics to the collector, shielding the task from sink
// failures.
func (m *Manager) record(ctx context.Context, tm TaskMetrics) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WarnContext(ctx, "metrics collector panicked",
				"resource", string(tm.Resource),
				"operation", tm.Operation,
				"panic", r,
			)
		}
	}()
	m.metrics.RecordTask(tm)
}

// taskSet tracks the ids of in-flight CPU tasks. Pool drain decisions only
// need emptiness, but the bitmap keeps membership exact under churn.
type taskSet struct {
	mu  sync.Mutex
	ids *roaring64.Bitmap
}

func newTaskSet() *taskSet {
	return &taskSet{ids: roaring64.New()}
}

func (s *taskSet) add(id uint64) {
	s.mu.Lock()
	s.ids.Add(id)
	s.mu.Unlock()
}

func (s *taskSet) remove(id uint64) {
	s.mu.Lock()
	s.ids.Remove(id)
	s.mu.Unlock()
}

func (s *taskSet) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids.IsEmpty()
}

func (s *taskSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.ids.GetCardinality())
}

// DoCPU submits fn to the CPU pool and returns its typed result. It is a
// generic convenience wrapper around Manager.SubmitCPU.
func DoCPU[T any](ctx context.Context, m *Manager, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	_, err := m.SubmitCPU(ctx, operation, func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		out = v
		return nil, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// DoIO submits fn under the semaphore for identifier's resource key and
// returns its typed result. It is a generic convenience wrapper around
// Manager.SubmitIO.
func DoIO[T any](ctx context.Context, m *Manager, identifier, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	_, err := m.SubmitIO(ctx, identifier, operation, func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		out = v
		return nil, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
