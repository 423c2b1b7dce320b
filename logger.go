package manseg

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with manseg-specific context.
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

// LogAlloc logs a storage allocation.
func (l *Logger) LogAlloc(length int, err error) {
	if err != nil {
		l.Error("allocation failed",
			"length", length,
			"error", err,
		)
	} else {
		l.Debug("storage allocated",
			"length", length,
		)
	}
}

// LogMirrorBuild logs a mirror build operation.
func (l *Logger) LogMirrorBuild(length int, err error) {
	if err != nil {
		l.Error("mirror build failed",
			"length", length,
			"error", err,
		)
	} else {
		l.Debug("mirror built",
			"length", length,
		)
	}
}

// LogRelease logs a release operation. kind is "storage" or "mirror".
func (l *Logger) LogRelease(kind string, length int, err error) {
	if err != nil {
		l.Error("release failed",
			"kind", kind,
			"length", length,
			"error", err,
		)
	} else {
		l.Debug("released",
			"kind", kind,
			"length", length,
		)
	}
}
