package execmem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// Logger wraps slog.Logger with execmem-specific context.
// This provides structured logging with consistent field names.
//
// Successful reserve/release events are logged at debug level and sampled:
// the first few are always emitted, after that at most one per second. JIT
// workloads create regions in tight loops and would otherwise flood the log.
// Failures are never sampled.
type Logger struct {
	*slog.Logger
	sampler *rate.Sometimes
}

func newSampledLogger(handler slog.Handler) *Logger {
	return &Logger{
		Logger:  slog.New(handler),
		sampler: &rate.Sometimes{First: 10, Interval: time.Second},
	}
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return newSampledLogger(handler)
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return newSampledLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return newSampledLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return newSampledLogger(slog.DiscardHandler)
}

func (l *Logger) debugSampled(ctx context.Context, msg string, args ...any) {
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.sampler.Do(func() {
		l.DebugContext(ctx, msg, args...)
	})
}

// LogReserve logs a reserve operation.
func (l *Logger) LogReserve(ctx context.Context, requested, reserved int, addr uintptr, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reserve failed",
			"requested", requested,
			"reserved", reserved,
			"error", err,
		)
		return
	}
	l.debugSampled(ctx, "region reserved",
		"requested", requested,
		"reserved", reserved,
		"addr", fmt.Sprintf("%#x", addr),
	)
}

// LogRelease logs a release operation. automatic is true when the release
// was triggered by the garbage collector rather than Close.
func (l *Logger) LogRelease(ctx context.Context, addr uintptr, length int, automatic bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "release failed",
			"addr", fmt.Sprintf("%#x", addr),
			"length", length,
			"automatic", automatic,
			"error", err,
		)
		return
	}
	l.debugSampled(ctx, "region released",
		"addr", fmt.Sprintf("%#x", addr),
		"length", length,
		"automatic", automatic,
	)
}
