package semaphore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NegativeCapacity(t *testing.T) {
	_, err := New(-1)
	assert.ErrorIs(t, err, ErrNegativeCapacity)
}

func TestNew_ZeroCapacity(t *testing.T) {
	s, err := New(0)
	require.NoError(t, err)

	assert.Equal(t, 0, s.Max())
	assert.Equal(t, 0, s.Available())
	assert.False(t, s.TryAcquire())
}

func TestAcquireRelease(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	require.NoError(t, s.Acquire(t.Context()))
	require.NoError(t, s.Acquire(t.Context()))
	assert.Equal(t, 0, s.Available())
	assert.False(t, s.TryAcquire())

	s.Release()
	assert.Equal(t, 1, s.Available())
	assert.True(t, s.TryAcquire())
	assert.Equal(t, 0, s.Available())
}

func TestAcquire_ContextDeadline(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.True(t, s.TryAcquire())

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err = s.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, s.Available())
}

func TestAcquire_BlockedThenReleased(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.True(t, s.TryAcquire())

	acquired := make(chan struct{})
	go func() {
		if s.Acquire(context.Background()) == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("acquired without an available permit")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by release")
	}
	assert.Equal(t, 0, s.Available())
}

func TestRelease_OverReleaseIsNoop(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	s.Release()
	assert.Equal(t, 1, s.Available())
	assert.Equal(t, 1, s.Max())
}

func TestResize_ClampOnShrink(t *testing.T) {
	s, err := New(5)
	require.NoError(t, err)

	require.NoError(t, s.Resize(3))
	assert.Equal(t, 3, s.Max())
	assert.Equal(t, 3, s.Available())

	for i := 0; i < 3; i++ {
		assert.True(t, s.TryAcquire(), "acquire %d", i)
	}
	assert.False(t, s.TryAcquire())
}

func TestResize_GrowDoesNotFabricatePermits(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)
	require.True(t, s.TryAcquire())
	require.True(t, s.TryAcquire())

	require.NoError(t, s.Resize(3))
	assert.Equal(t, 3, s.Max())
	assert.Equal(t, 0, s.Available())

	s.Release()
	assert.Equal(t, 1, s.Available())
}

func TestResize_Negative(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Resize(-1), ErrNegativeCapacity)
	assert.Equal(t, 1, s.Max())
	assert.Equal(t, 1, s.Available())
}

func TestResize_ShrinkBelowHeldPermits(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.True(t, s.TryAcquire())
	}

	// All three permits are held; the new ceiling is 1.
	require.NoError(t, s.Resize(1))
	assert.Equal(t, 0, s.Available())

	s.Release()
	assert.Equal(t, 1, s.Available())

	// Releases above the new ceiling vanish from the pool.
	s.Release()
	assert.Equal(t, 1, s.Available())
	s.Release()
	assert.Equal(t, 1, s.Available())
}

func TestResize_GrowWhileWaiting(t *testing.T) {
	s, err := New(1)
	require.NoError(t, err)
	require.True(t, s.TryAcquire())

	acquired := make(chan struct{})
	go func() {
		if s.Acquire(context.Background()) == nil {
			close(acquired)
		}
	}()

	// Growing wakes the waiter, but no permit exists until a release.
	require.NoError(t, s.Resize(3))
	select {
	case <-acquired:
		t.Fatal("grow must not admit a waiter by itself")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter was not admitted after release")
	}

	assert.Equal(t, 3, s.Max())
	assert.Equal(t, 0, s.Available())
}

func TestConcurrentChurn(t *testing.T) {
	const (
		capacity   = 4
		goroutines = 16
		rounds     = 200
	)

	s, err := New(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if err := s.Acquire(context.Background()); err != nil {
					return
				}
				avail := s.Available()
				if avail < 0 || avail > capacity {
					t.Errorf("availability out of bounds: %d", avail)
				}
				s.Release()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, s.Available())
	assert.Equal(t, capacity, s.Max())
}

func TestConcurrentResizeChurn(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(8)
	for g := 0; g < 8; g++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if s.TryAcquire() {
					s.Release()
				}
			}
		}()
	}

	sizes := []int{1, 4, 2, 8, 3, 2}
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Resize(sizes[i%len(sizes)]))
		assert.GreaterOrEqual(t, s.Available(), 0)
		assert.LessOrEqual(t, s.Max(), 8)
	}
	close(done)
	wg.Wait()

	assert.LessOrEqual(t, s.Available(), s.Max())
}
