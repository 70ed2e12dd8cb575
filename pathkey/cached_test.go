package pathkey

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (r *countingResolver) ResolveKey(identifier string) (string, error) {
	r.calls.Add(1)
	if r.fail.Load() {
		return "", errors.New("resolver down")
	}
	return "key-" + identifier, nil
}

func TestCached_MemoizesHits(t *testing.T) {
	inner := &countingResolver{}
	c := NewCached(inner, 16)

	for range 5 {
		key, err := c.ResolveKey("/mnt/a")
		require.NoError(t, err)
		assert.Equal(t, "key-/mnt/a", key)
	}

	assert.Equal(t, int64(1), inner.calls.Load())

	hits, misses := c.Stats()
	assert.Equal(t, int64(4), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	inner := &countingResolver{}
	inner.fail.Store(true)
	c := NewCached(inner, 16)

	_, err := c.ResolveKey("/mnt/a")
	require.Error(t, err)

	inner.fail.Store(false)

	key, err := c.ResolveKey("/mnt/a")
	require.NoError(t, err)
	assert.Equal(t, "key-/mnt/a", key)
	assert.Equal(t, int64(2), inner.calls.Load())
}

func TestCached_ConcurrentLookupsShareOneCall(t *testing.T) {
	var (
		gate  = make(chan struct{})
		calls atomic.Int64
	)
	inner := ResolverFunc(func(identifier string) (string, error) {
		calls.Add(1)
		<-gate
		return "shared", nil
	})
	c := NewCached(inner, 16)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key, err := c.ResolveKey("/mnt/busy")
			if err != nil {
				return
			}
			results[i] = key
		}()
	}

	// Give the goroutines a chance to pile onto the in-flight call, then
	// let it finish.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, key := range results {
		assert.Equal(t, "shared", key)
	}
	assert.LessOrEqual(t, calls.Load(), int64(8))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}
