package core

import (
	"context"

	"github.com/tharaga/propmatch/internal/logger"
)

// Context keys for run options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	loggerKey         contextKey = "logger"
)

// WithSuppressHeader marks the context so executors skip their stderr header.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	suppress, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && suppress
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, log *logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// LoggerFrom returns the context logger, or a no-op logger when none is set.
func LoggerFrom(ctx context.Context) *logger.Logger {
	if log, ok := ctx.Value(loggerKey).(*logger.Logger); ok && log != nil {
		return log
	}
	return logger.Nop()
}
