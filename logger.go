package rankselect

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rank/select field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithKind adds the index kind.
func (l *Logger) WithKind(kind Kind) *Logger {
	return &Logger{Logger: l.Logger.With("kind", kind.String())}
}

// WithK adds the superblock parameter.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{Logger: l.Logger.With("k", k)}
}

// WithBits adds the vector length.
func (l *Logger) WithBits(n int) *Logger {
	return &Logger{Logger: l.Logger.With("bits", n)}
}

// LogBuild logs construction of an index.
func (l *Logger) LogBuild(ctx context.Context, kind Kind, bits, k int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"kind", kind.String(),
			"bits", bits,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "build completed",
		"kind", kind.String(),
		"bits", bits,
		"k", k,
		"elapsed", elapsed,
	)
}

// LogRebuild logs an in-place rebuild.
func (l *Logger) LogRebuild(ctx context.Context, kind Kind, bits int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rebuild failed",
			"kind", kind.String(),
			"bits", bits,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "rebuild completed",
		"kind", kind.String(),
		"bits", bits,
		"elapsed", elapsed,
	)
}

// LogSnapshot logs a snapshot save.
func (l *Logger) LogSnapshot(ctx context.Context, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"name", name,
		"bytes", size,
	)
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, name string, kind Kind, bits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot loaded",
		"name", name,
		"kind", kind.String(),
		"bits", bits,
	)
}
