// Package observability wires logging, tracing and metrics into fx.
package observability

import (
	"github.com/sitebooks/sitebooks/internal/config"
	"github.com/sitebooks/sitebooks/internal/observability/logger"
	"github.com/sitebooks/sitebooks/internal/observability/metrics"
	"github.com/sitebooks/sitebooks/internal/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) (*zap.Logger, error) {
		return logger.New(cfg.Environment, cfg.LogLevel)
	}),
	fx.Provide(func(cfg config.Config) tracing.Config {
		return tracing.Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      "sitebooks",
			ServiceVersion:   cfg.Tracing.ServiceVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}
	}),
	fx.Provide(func(cfg config.Config) metrics.Config {
		return metrics.Config{
			ServiceName: "sitebooks",
			Environment: cfg.Environment,
		}
	}),
	fx.Provide(func() metric.MeterProvider {
		return otel.GetMeterProvider()
	}),
	fx.Provide(metrics.NewHTTPMetrics),
	fx.Provide(metrics.SnapshotWithConfig),
	fx.Invoke(tracing.NewProvider),
)
