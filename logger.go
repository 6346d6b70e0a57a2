package vessel

import (
	"log/slog"
	"os"

	"github.com/hupe1980/vessel/metric"
)

// Logger wraps slog.Logger with container-specific context.
// It also implements metric.Observer, logging every capacity event, so one
// value can be passed to both WithLogger and WithObserver options.
type Logger struct {
	*slog.Logger
}

var _ metric.Observer = (*Logger)(nil)

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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithContainer adds a container name field, for telling apart several
// containers that share one logger.
func (l *Logger) WithContainer(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", name),
	}
}

// OnGrow implements metric.Observer.
func (l *Logger) OnGrow(kind metric.Kind, oldCap, newCap int) {
	l.Debug("container grew", "kind", kind, "old_cap", oldCap, "new_cap", newCap)
}

// OnShrink implements metric.Observer.
func (l *Logger) OnShrink(kind metric.Kind, oldCap, newCap int) {
	l.Debug("container shrank", "kind", kind, "old_cap", oldCap, "new_cap", newCap)
}

// OnShrinkSkipped implements metric.Observer.
func (l *Logger) OnShrinkSkipped(kind metric.Kind, capacity int, err error) {
	l.Warn("container kept its buffer", "kind", kind, "cap", capacity, "error", err)
}

// OnRehash implements metric.Observer.
func (l *Logger) OnRehash(kind metric.Kind, oldCap, newCap, entries int) {
	l.Debug("hash table rehashed",
		"kind", kind,
		"old_cap", oldCap,
		"new_cap", newCap,
		"entries", entries,
	)
}
