package testutil

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/respool"
)

func TestRecorder(t *testing.T) {
	rec := NewRecorder()

	rec.RecordTask(respool.TaskMetrics{Resource: respool.ResourceCPU, Operation: "crunch"})
	rec.RecordTask(respool.TaskMetrics{Resource: respool.ResourceIO, Operation: "read"})
	rec.RecordTask(respool.TaskMetrics{
		Resource:  respool.ResourceIO,
		Operation: "read",
		Err:       errors.New("disk on fire"),
	})

	assert.Equal(t, 3, rec.Len())
	assert.Len(t, rec.Records(), 3)
	assert.Len(t, rec.ByResource(respool.ResourceCPU), 1)
	assert.Len(t, rec.ByResource(respool.ResourceIO), 2)
	assert.Len(t, rec.Failed(), 1)
}

func TestRecorder_RecordsReturnsCopy(t *testing.T) {
	rec := NewRecorder()
	rec.RecordTask(respool.TaskMetrics{Resource: respool.ResourceCPU, Operation: "a"})

	snapshot := rec.Records()
	snapshot[0].Operation = "mutated"

	assert.Equal(t, "a", rec.Records()[0].Operation)
}

func TestRecorder_ConcurrentRecording(t *testing.T) {
	rec := NewRecorder()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				rec.RecordTask(respool.TaskMetrics{Resource: respool.ResourceCPU, Operation: "crunch"})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, rec.Len())
}

func TestPanicCollector(t *testing.T) {
	assert.Panics(t, func() {
		PanicCollector{}.RecordTask(respool.TaskMetrics{})
	})
}

func TestRNG_ResetReproduces(t *testing.T) {
	rng := NewRNG(4711)
	first := []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)}

	rng.Reset()
	second := []int{rng.Intn(100), rng.Intn(100), rng.Intn(100)}

	assert.Equal(t, first, second)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestRNG_JitterBounds(t *testing.T) {
	rng := NewRNG(1)

	for range 100 {
		d := rng.Jitter(10*time.Millisecond, 5*time.Millisecond)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 15*time.Millisecond)
	}

	assert.Equal(t, time.Second, rng.Jitter(time.Second, 0))
}

func TestRNG_Float64Range(t *testing.T) {
	rng := NewRNG(7)

	for range 100 {
		f := rng.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
	}
}
