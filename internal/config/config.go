// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime setting for the sitebooks process.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string
	LogLevel    string

	Tracing    TracingConfig
	Dispatcher DispatcherConfig
}

// TracingConfig controls the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled          bool
	ServiceVersion   string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// DispatcherConfig controls the outbox dispatcher loop.
type DispatcherConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// Load reads configuration from the environment. A local .env file is
// honored when present so development setups match production shape.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("SITEBOOKS_ENV", "development"),
		HTTPAddr:    getEnv("SITEBOOKS_HTTP_ADDR", ":8080"),
		DatabaseDSN: getEnv("SITEBOOKS_DATABASE_DSN", ""),
		LogLevel:    getEnv("SITEBOOKS_LOG_LEVEL", "info"),
		Tracing: TracingConfig{
			Enabled:          getEnvBool("SITEBOOKS_TRACING_ENABLED", false),
			ServiceVersion:   getEnv("SITEBOOKS_VERSION", "dev"),
			ExporterEndpoint: getEnv("SITEBOOKS_OTLP_ENDPOINT", ""),
			ExporterProtocol: getEnv("SITEBOOKS_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getEnvFloat("SITEBOOKS_TRACE_SAMPLING_RATIO", 1.0),
		},
		Dispatcher: DispatcherConfig{
			BatchSize:    getEnvInt("SITEBOOKS_DISPATCHER_BATCH_SIZE", 50),
			PollInterval: getEnvDuration("SITEBOOKS_DISPATCHER_POLL_INTERVAL", 2*time.Second),
		},
	}
	return cfg, nil
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
