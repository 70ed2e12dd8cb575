package semaphore

import (
	"context"
	"sync"

	"github.com/eapache/queue"
)

// ticket is one waiter's place in a Fair semaphore's queue.
type ticket struct {
	ready     chan struct{}
	granted   bool
	abandoned bool
}

// Fair is a counting semaphore with the same capacity semantics as Semaphore
// but strict FIFO ordering of waiters. Waiters queue as tickets; every
// release and resize grants permits in ticket order, so a late arrival can
// never overtake an earlier waiter.
type Fair struct {
	mu        sync.Mutex
	max       int
	available int
	waiters   *queue.Queue
	waiting   int // live tickets in the queue, excluding abandoned ones
}

// NewFair creates a FIFO-fair semaphore with the given capacity, fully
// available. Returns ErrNegativeCapacity if capacity < 0.
func NewFair(capacity int) (*Fair, error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}

	return &Fair{
		max:       capacity,
		available: capacity,
		waiters:   queue.New(),
	}, nil
}

// Acquire obtains a permit in FIFO order, blocking until granted or ctx is
// done. Returns ctx.Err() on cancellation or deadline expiry.
func (f *Fair) Acquire(ctx context.Context) error {
	f.mu.Lock()
	if f.available > 0 && f.waiting == 0 {
		f.available--
		f.mu.Unlock()
		return nil
	}
	t := &ticket{ready: make(chan struct{})}
	f.waiters.Add(t)
	f.waiting++
	f.mu.Unlock()

	select {
	case <-t.ready:
		return nil
	case <-ctx.Done():
		f.mu.Lock()
		if t.granted {
			// A grant raced the cancellation; return the permit so the
			// next waiter gets it.
			f.releaseLocked()
		} else {
			t.abandoned = true
			f.waiting--
		}
		f.mu.Unlock()
		return ctx.Err()
	}
}

// TryAcquire obtains a permit without blocking. Queued waiters keep
// priority: TryAcquire fails while anyone is waiting.
func (f *Fair) TryAcquire() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.available == 0 || f.waiting > 0 {
		return false
	}
	f.available--

	return true
}

// Release returns a permit and grants queued waiters in order. A release
// when availability is already at capacity is a silent no-op.
func (f *Fair) Release() {
	f.mu.Lock()
	f.releaseLocked()
	f.mu.Unlock()
}

// Resize changes the capacity with the same clamp and grow rules as
// Semaphore.Resize, then grants queued waiters in order.
func (f *Fair) Resize(newMax int) error {
	if newMax < 0 {
		return ErrNegativeCapacity
	}

	f.mu.Lock()
	if newMax < f.available {
		f.available = newMax
	}
	f.max = newMax
	f.grantLocked()
	f.mu.Unlock()

	return nil
}

// Max returns the current capacity.
func (f *Fair) Max() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.max
}

// Available returns the number of permits currently available.
func (f *Fair) Available() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

// Waiters returns the number of goroutines currently queued for a permit.
func (f *Fair) Waiters() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waiting
}

// releaseLocked credits one permit and runs the grant loop. Callers must
// hold mu.
func (f *Fair) releaseLocked() {
	if f.available < f.max {
		f.available++
		f.grantLocked()
	}
}

// grantLocked hands available permits to queued waiters in FIFO order,
// skipping abandoned tickets. Callers must hold mu.
func (f *Fair) grantLocked() {
	for f.available > 0 && f.waiters.Length() > 0 {
		t := f.waiters.Remove().(*ticket)
		if t.abandoned {
			continue
		}
		f.available--
		f.waiting--
		t.granted = true
		close(t.ready)
	}
}
