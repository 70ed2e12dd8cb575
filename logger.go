package respool

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with respool-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTaskID adds a task_id field to the logger.
func (l *Logger) WithTaskID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("task_id", id),
	}
}

// WithKey adds a resource key field to the logger.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithOperation adds an operation field to the logger.
func (l *Logger) WithOperation(operation string) *Logger {
	return &Logger{
		Logger: l.Logger.With("operation", operation),
	}
}

// LogTask logs a completed task.
func (l *Logger) LogTask(ctx context.Context, m TaskMetrics) {
	if m.Err != nil {
		l.ErrorContext(ctx, "task failed",
			"resource", string(m.Resource),
			"operation", m.Operation,
			"queue_time", m.QueueTime,
			"execution_time", m.ExecutionTime,
			"error", m.Err,
		)
	} else {
		l.DebugContext(ctx, "task completed",
			"resource", string(m.Resource),
			"operation", m.Operation,
			"queue_time", m.QueueTime,
			"execution_time", m.ExecutionTime,
		)
	}
}

// LogCPUResize logs a CPU pool resize.
func (l *Logger) LogCPUResize(ctx context.Context, oldSize, newSize int) {
	l.InfoContext(ctx, "cpu pool resized",
		"old_size", oldSize,
		"new_size", newSize,
	)
}

// LogIOResize logs a per-key I/O limit change.
func (l *Logger) LogIOResize(ctx context.Context, key string, limit int) {
	l.InfoContext(ctx, "io limit resized",
		"key", key,
		"limit", limit,
	)
}

// LogDrain logs the completion of a superseded CPU pool's drain.
func (l *Logger) LogDrain(ctx context.Context) {
	l.DebugContext(ctx, "superseded cpu pool drained")
}

// LogShutdown logs manager shutdown.
func (l *Logger) LogShutdown(ctx context.Context, activeTasks int) {
	l.InfoContext(ctx, "resource pool manager closed",
		"active_tasks", activeTasks,
	)
}
