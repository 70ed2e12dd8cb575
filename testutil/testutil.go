package testutil

import (
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/respool"
)

// Recorder is a respool.MetricsCollector that captures every record for
// test assertions. It is thread-safe.
type Recorder struct {
	mu      sync.Mutex
	records []respool.TaskMetrics
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordTask implements respool.MetricsCollector.
func (r *Recorder) RecordTask(m respool.TaskMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, m)
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []respool.TaskMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]respool.TaskMetrics, len(r.records))
	copy(out, r.records)
	return out
}

// ByResource returns the records for one resource class.
func (r *Recorder) ByResource(rt respool.ResourceType) []respool.TaskMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []respool.TaskMetrics
	for _, m := range r.records {
		if m.Resource == rt {
			out = append(out, m)
		}
	}
	return out
}

// Failed returns the records carrying a non-nil Err.
func (r *Recorder) Failed() []respool.TaskMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []respool.TaskMetrics
	for _, m := range r.records {
		if m.Err != nil {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of records captured so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// PanicCollector panics on every record. It exists to verify that a broken
// metrics sink cannot fail tasks.
type PanicCollector struct{}

// RecordTask implements respool.MetricsCollector.
func (PanicCollector) RecordTask(respool.TaskMetrics) {
	panic("collector exploded")
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Jitter returns base plus a random duration in [0, spread). Useful for
// de-synchronizing workers in concurrency tests.
func (r *RNG) Jitter(base, spread time.Duration) time.Duration {
	if spread <= 0 {
		return base
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return base + time.Duration(r.rand.Int63n(int64(spread)))
}
