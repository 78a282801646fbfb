package zarrgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with zarrgo-specific context.
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

// WithPath adds the node path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogChunkRead logs one chunk read, noting whether the key was absent and
// the fill value substituted.
func (l *Logger) LogChunkRead(ctx context.Context, key string, filled bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "chunk read failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "chunk read",
			"key", key,
			"filled", filled,
		)
	}
}

// LogChunkWrite logs one chunk write, noting whether the sparse path
// deleted the key instead of storing bytes.
func (l *Logger) LogChunkWrite(ctx context.Context, key string, deleted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "chunk write failed",
			"key", key,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "chunk write",
			"key", key,
			"deleted", deleted,
		)
	}
}
