package pagedseq

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pagedseq-specific helpers.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPageSize adds a page_size field to the logger.
func (l *Logger) WithPageSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page_size", size),
	}
}

// LogPageAlloc logs the allocation of a new trailing page.
func (l *Logger) LogPageAlloc(ctx context.Context, pages, length int, err error) {
	if err != nil {
		l.WarnContext(ctx, "page allocation rejected",
			"pages", pages,
			"len", length,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "page allocated",
		"pages", pages,
		"len", length,
	)
}

// LogPageRelease logs the release of a trailing page.
func (l *Logger) LogPageRelease(ctx context.Context, pages, length int) {
	l.DebugContext(ctx, "page released",
		"pages", pages,
		"len", length,
	)
}

// LogSnapshot logs a completed (or failed) snapshot encode or decode.
func (l *Logger) LogSnapshot(ctx context.Context, op string, pages, length int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"pages", pages,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot complete",
		"op", op,
		"pages", pages,
		"len", length,
		"bytes", bytes,
	)
}
