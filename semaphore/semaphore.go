package semaphore

import (
	"context"
	"errors"
	"sync"
)

// ErrNegativeCapacity is returned when a semaphore is created or resized
// with a negative capacity.
var ErrNegativeCapacity = errors.New("negative semaphore capacity")

// Semaphore is a counting semaphore whose capacity can change at runtime.
//
// Capacity changes follow two rules:
//   - Shrinking below the current availability clamps availability
//     immediately. Permits already checked out are not revoked; releases
//     above the new ceiling vanish from the pool.
//   - Growing raises the ceiling only. Availability rises as holders
//     release, never instantaneously.
//
// Wake-up is a broadcast: waiters re-check availability and may resolve in
// any order. Use Fair when strict FIFO ordering of waiters is required.
type Semaphore struct {
	mu        sync.Mutex
	max       int
	available int
	wake      chan struct{}
}

// New creates a semaphore with the given capacity, fully available.
// Returns ErrNegativeCapacity if capacity < 0. A zero-capacity semaphore is
// valid; it admits nothing until a release follows a grow.
func New(capacity int) (*Semaphore, error) {
	if capacity < 0 {
		return nil, ErrNegativeCapacity
	}

	return &Semaphore{
		max:       capacity,
		available: capacity,
		wake:      make(chan struct{}),
	}, nil
}

// Acquire obtains a permit, blocking until one is available or ctx is done.
// Returns ctx.Err() on cancellation or deadline expiry.
func (s *Semaphore) Acquire(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.available > 0 {
			s.available--
			s.mu.Unlock()
			return nil
		}
		wake := s.wake
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wake:
		}
	}
}

// TryAcquire obtains a permit without blocking.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.available == 0 {
		return false
	}
	s.available--

	return true
}

// Release returns a permit and wakes waiters. A release when availability is
// already at capacity (a double release, or a release after a shrink) is a
// silent no-op.
func (s *Semaphore) Release() {
	s.mu.Lock()
	if s.available < s.max {
		s.available++
		s.notifyLocked()
	}
	s.mu.Unlock()
}

// Resize changes the capacity and wakes all waiters so they re-check
// availability. Returns ErrNegativeCapacity if newMax < 0.
func (s *Semaphore) Resize(newMax int) error {
	if newMax < 0 {
		return ErrNegativeCapacity
	}

	s.mu.Lock()
	if newMax < s.available {
		s.available = newMax
	}
	s.max = newMax
	s.notifyLocked()
	s.mu.Unlock()

	return nil
}

// Max returns the current capacity.
func (s *Semaphore) Max() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// Available returns the number of permits currently available.
func (s *Semaphore) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// notifyLocked broadcasts to all waiters. Callers must hold mu.
func (s *Semaphore) notifyLocked() {
	close(s.wake)
	s.wake = make(chan struct{})
}
