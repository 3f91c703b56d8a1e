// Package logger provides the zap logger, context-aware accessors and the
// gin request-logging middleware.
package logger

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Level falls back to info on bad input.
func New(environment, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(environment, "development") {
		cfg = zap.NewDevelopmentConfig()
	}

	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

// FromContext returns the global logger enriched with the trace and span
// ids of the active span, when one is recording.
func FromContext(ctx context.Context) *zap.Logger {
	log := zap.L()
	if ctx == nil {
		return log
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
