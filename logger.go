package structidx

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/structidx/model"
)

// Logger wraps slog.Logger with structidx-specific context.
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
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithStore adds a backing store field to the logger.
func (l *Logger) WithStore(s BackingStore) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", s.String()),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, units, levels int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"units", units,
			"levels", levels,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index built",
			"units", units,
			"levels", levels,
		)
	}
}

// LogLookup logs a path lookup.
func (l *Logger) LogLookup(ctx context.Context, path string, outcome model.Outcome, speculative bool) {
	l.DebugContext(ctx, "lookup completed",
		"path", path,
		"outcome", outcome.String(),
		"speculative", speculative,
	)
}

// LogPatternInvalidated logs a cached pattern that no longer matches.
func (l *Logger) LogPatternInvalidated(ctx context.Context, path string, pattern model.Pattern) {
	l.DebugContext(ctx, "cached pattern invalidated",
		"path", path,
		"pattern", []int(pattern),
	)
}

// LogPoolExhausted logs a failed buffer lease.
func (l *Logger) LogPoolExhausted(ctx context.Context, size int, fallback bool, err error) {
	l.WarnContext(ctx, "buffer pool lease failed",
		"size", size,
		"fallback", fallback,
		"error", err,
	)
}
