package seqgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with seqgo-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithHandle adds the file handle to the logger.
func (l *Logger) WithHandle(h Handle) *Logger {
	return &Logger{
		Logger: l.Logger.With("handle", int(h)),
	}
}

// LogOpen logs attaching a dataset to a handle.
func (l *Logger) LogOpen(ctx context.Context, h Handle, samples, variants, ploidy int) {
	l.InfoContext(ctx, "file opened",
		"handle", int(h),
		"samples", samples,
		"variants", variants,
		"ploidy", ploidy,
	)
}

// LogClose logs releasing a handle.
func (l *Logger) LogClose(h Handle) {
	l.Info("file closed",
		"handle", int(h),
	)
}

// LogFilter logs a filter change with the resulting selection size.
func (l *Logger) LogFilter(h Handle, dim string, selected int) {
	l.Debug("filter changed",
		"handle", int(h),
		"dimension", dim,
		"selected", PrettyInt(selected),
	)
}

// LogGetField logs a field read.
func (l *Logger) LogGetField(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get field failed",
			"field", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get field completed",
			"field", name,
		)
	}
}

// LogReset logs rebinding a handle to a different dataset.
func (l *Logger) LogReset(ctx context.Context, h Handle, samples, variants, ploidy int) {
	l.InfoContext(ctx, "file reset",
		"handle", int(h),
		"samples", samples,
		"variants", variants,
		"ploidy", ploidy,
	)
}

// LogIndexBuild logs a lazily built index.
func (l *Logger) LogIndexBuild(name string, runs int) {
	l.Debug("index built",
		"node", name,
		"runs", runs,
	)
}

// LogApplyStart logs the start of a block or variant apply.
func (l *Logger) LogApplyStart(ctx context.Context, units, blocks int) {
	l.InfoContext(ctx, "apply started",
		"variants", units,
		"blocks", blocks,
	)
}

// LogApply logs a finished block or variant apply.
func (l *Logger) LogApply(ctx context.Context, units, blocks int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "apply failed",
			"variants", units,
			"blocks", blocks,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "apply completed",
			"variants", units,
			"blocks", blocks,
		)
	}
}
