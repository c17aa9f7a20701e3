package slotmap

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with slotmap-specific helpers.
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
// This is the default for every container.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithContainer tags the logger with the container name.
func (l *Logger) WithContainer(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", name),
	}
}

// LogGrow logs a page growth.
func (l *Logger) LogGrow(pages, capacity int) {
	l.Debug("page allocated",
		"pages", pages,
		"capacity", capacity,
	)
}

// LogViolation logs a contract violation right before the container panics.
func (l *Logger) LogViolation(op string, s Slot, err error) {
	l.Error("contract violation",
		"op", op,
		"index", s.Index,
		"generation", s.Generation,
		"error", err,
	)
}

// LogEvict logs a value dropped because a newer generation of the same index
// was assigned over it.
func (l *Logger) LogEvict(stale, key Slot) {
	l.Warn("stale value evicted",
		"index", key.Index,
		"stale_generation", stale.Generation,
		"generation", key.Generation,
	)
}
