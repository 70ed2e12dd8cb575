package respool

import (
	"log/slog"

	"golang.org/x/time/rate"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	resolver         Resolver
	fairIO           bool
	ioRate           rate.Limit
	ioBurst          int
}

// Option configures Manager constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for completed tasks.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &respool.BasicMetricsCollector{}
//	m, _ := respool.New(respool.Config{}, respool.WithMetricsCollector(metrics))
//	// ... submit work ...
//	stats := metrics.GetStats()
//	fmt.Printf("IO tasks: %d, avg queue: %dns\n", stats.IOCount, stats.IOAvgQueueNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := respool.NewJSONLogger(slog.LevelInfo)
//	m, _ := respool.New(respool.Config{}, respool.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResolver configures how I/O task identifiers map to resource keys.
// All identifiers resolving to the same key share one semaphore.
//
// If nil is passed, Identity is used: every distinct identifier becomes its
// own key. See the pathkey package for filesystem-aware resolvers.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r == nil {
			r = Identity
		}
		o.resolver = r
	}
}

// WithFairIO switches the per-key I/O semaphores to strict FIFO admission.
//
// The default semaphore wakes all waiters on release and lets the scheduler
// pick the winner, which is cheaper but can starve an unlucky waiter under
// sustained contention. FIFO admission grants permits in arrival order at the
// cost of a queue per semaphore.
func WithFairIO() Option {
	return func(o *options) {
		o.fairIO = true
	}
}

// WithIORate adds a global rate limit on I/O task starts, shared across all
// resource keys and applied after per-key admission. eventsPerSec is the
// sustained rate, burst the number of starts allowed at once.
//
// Values <= 0 disable the limiter.
func WithIORate(eventsPerSec float64, burst int) Option {
	return func(o *options) {
		if eventsPerSec <= 0 || burst <= 0 {
			o.ioRate = 0
			o.ioBurst = 0
			return
		}
		o.ioRate = rate.Limit(eventsPerSec)
		o.ioBurst = burst
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		resolver:         Identity,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
