// Package logging provides structured logging configuration using log/slog.
//
// This package carries the conversion ID through context so every log entry
// for one conversion can be correlated, from file load to CSV write.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const ctxKeyConversionID contextKey = "conversion_id"

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format when the output feeds a log pipeline.
// Use "text" format at the terminal for human readability.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithConversionID stores a conversion ID in the context.
func WithConversionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyConversionID, id)
}

// ConversionIDFromContext extracts the conversion ID from context.
func ConversionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyConversionID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a logger enriched with conversion context.
//
// When the context carries a conversion ID, the returned logger includes
// conversion_id in all log entries.
//
// Usage:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("normalizing rows", "source", table.Source)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id := ConversionIDFromContext(ctx); id != "" {
		logger = logger.With("conversion_id", id)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
//
// Usage:
//
//	convLogger := logging.WithFields(ctx,
//	    "source", table.Source,
//	    "rows", len(table.Rows),
//	)
//	convLogger.Info("conversion started")
//	// ... later ...
//	convLogger.Info("conversion completed", "emitted", len(result.Rows))
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
