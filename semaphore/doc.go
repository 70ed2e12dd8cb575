// Package semaphore provides counting semaphores with runtime-resizable
// capacity.
//
// Two implementations share the same capacity rules:
//
//   - Semaphore: broadcast wake-up, best-effort ordering of waiters. Cheap,
//     and the default used for per-key I/O admission.
//   - Fair: explicit ticket queue, strict FIFO grants. Use when starvation of
//     long waiters under churn is unacceptable.
//
// # Capacity rules
//
// Resizing never revokes a held permit and never fabricates one:
//
//	s, _ := semaphore.New(5)          // max=5, available=5
//	s.Resize(3)                        // clamp: available=3
//	s.Resize(10)                       // grow: available still 3
//
// A release is a no-op once availability reaches the current capacity, so a
// double release cannot corrupt the permit count.
//
// # Usage
//
//	s, err := semaphore.New(4)
//	if err != nil {
//	    return err
//	}
//	if err := s.Acquire(ctx); err != nil {
//	    return err // cancelled or deadline exceeded
//	}
//	defer s.Release()
//
// Bounded waits use a context deadline; TryAcquire covers the non-blocking
// case.
//
// # Thread safety
//
// All methods on both implementations are safe for concurrent use.
package semaphore
