package respool

import (
	"sync/atomic"
	"time"
)

// ResourceType labels the resource class a task was admitted against.
type ResourceType string

const (
	// ResourceCPU marks tasks executed on the CPU worker pool.
	ResourceCPU ResourceType = "CPU"

	// ResourceIO marks tasks throttled by a per-key I/O semaphore.
	ResourceIO ResourceType = "IO"
)

// TaskMetrics is the per-task record handed to a MetricsCollector.
//
// QueueTime covers submission until execution start: pool queueing for CPU
// tasks, semaphore wait for I/O tasks. ExecutionTime covers the task function
// itself. Err is nil for tasks that completed successfully; tasks that never
// reached execution (cancelled while queued, rejected at submission) produce
// no record at all.
type TaskMetrics struct {
	Resource      ResourceType
	Operation     string
	QueueTime     time.Duration
	ExecutionTime time.Duration
	Err           error
}

// MetricsCollector defines an interface for collecting per-task metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    taskCounter    *prometheus.CounterVec
//	    queueHistogram *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordTask(m respool.TaskMetrics) {
//	    p.taskCounter.WithLabelValues(string(m.Resource), m.Operation).Inc()
//	    // ... record queue and execution durations, error state, etc.
//	}
//
// Collectors are fire-and-forget: a panicking or slow collector must not be
// able to fail a task, so RecordTask runs shielded on the task's goroutine.
type MetricsCollector interface {
	// RecordTask is called once per task that reached execution, after the
	// task function returned or panicked.
	RecordTask(m TaskMetrics)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTask(TaskMetrics) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CPUCount      atomic.Int64
	CPUErrors     atomic.Int64
	CPUQueueNanos atomic.Int64
	CPUExecNanos  atomic.Int64
	IOCount       atomic.Int64
	IOErrors      atomic.Int64
	IOQueueNanos  atomic.Int64
	IOExecNanos   atomic.Int64
}

// RecordTask implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTask(m TaskMetrics) {
	switch m.Resource {
	case ResourceCPU:
		b.CPUCount.Add(1)
		b.CPUQueueNanos.Add(m.QueueTime.Nanoseconds())
		b.CPUExecNanos.Add(m.ExecutionTime.Nanoseconds())
		if m.Err != nil {
			b.CPUErrors.Add(1)
		}
	case ResourceIO:
		b.IOCount.Add(1)
		b.IOQueueNanos.Add(m.QueueTime.Nanoseconds())
		b.IOExecNanos.Add(m.ExecutionTime.Nanoseconds())
		if m.Err != nil {
			b.IOErrors.Add(1)
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CPUCount:         b.CPUCount.Load(),
		CPUErrors:        b.CPUErrors.Load(),
		CPUAvgQueueNanos: avgNanos(&b.CPUCount, &b.CPUQueueNanos),
		CPUAvgExecNanos:  avgNanos(&b.CPUCount, &b.CPUExecNanos),
		IOCount:          b.IOCount.Load(),
		IOErrors:         b.IOErrors.Load(),
		IOAvgQueueNanos:  avgNanos(&b.IOCount, &b.IOQueueNanos),
		IOAvgExecNanos:   avgNanos(&b.IOCount, &b.IOExecNanos),
	}
}

func avgNanos(count, total *atomic.Int64) int64 {
	c := count.Load()
	if c == 0 {
		return 0
	}
	return total.Load() / c
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CPUCount         int64
	CPUErrors        int64
	CPUAvgQueueNanos int64
	CPUAvgExecNanos  int64
	IOCount          int64
	IOErrors         int64
	IOAvgQueueNanos  int64
	IOAvgExecNanos   int64
}

// LogMetricsCollector emits one structured log line per task. It is the
// simplest useful sink when no metrics backend is wired up.
type LogMetricsCollector struct {
	logger *Logger
}

// NewLogMetricsCollector creates a collector that writes to logger.
// A nil logger falls back to an info-level text logger on stderr.
func NewLogMetricsCollector(logger *Logger) *LogMetricsCollector {
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &LogMetricsCollector{logger: logger}
}

// RecordTask implements MetricsCollector.
func (c *LogMetricsCollector) RecordTask(m TaskMetrics) {
	if m.Err != nil {
		c.logger.Error("task recorded",
			"resource", string(m.Resource),
			"operation", m.Operation,
			"queue_time", m.QueueTime,
			"execution_time", m.ExecutionTime,
			"error", m.Err,
		)
		return
	}
	c.logger.Info("task recorded",
		"resource", string(m.Resource),
		"operation", m.Operation,
		"queue_time", m.QueueTime,
		"execution_time", m.ExecutionTime,
	)
}
