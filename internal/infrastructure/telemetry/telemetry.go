// Package telemetry wires OpenTelemetry tracing, metrics and log export for the posting service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/posting/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Config is shared by the trace, metric and log providers. With Enabled false every
// provider stays on the global no-op implementation.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	MetricsInterval   time.Duration
}

func ConfigFrom(cfg config.TelemetryConfig, version string) Config {
	return Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Insecure,
		MetricsInterval:   cfg.MetricsInterval,
	}
}

func (c Config) resource() (*resource.Resource, error) {
	version := c.ServiceVersion
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	return res, nil
}

// sdkProvider is the part of the SDK trace, meter and logger providers that the
// service lifecycle needs
type sdkProvider interface {
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// lifecycle carries flush and shutdown for one signal. sdk stays nil while export is off.
type lifecycle struct {
	signal string
	sdk    sdkProvider
	log    *zap.Logger
}

func (l *lifecycle) IsEnabled() bool {
	return l.sdk != nil
}

func (l *lifecycle) ForceFlush(ctx context.Context) error {
	if l.sdk == nil {
		return nil
	}
	return l.sdk.ForceFlush(ctx)
}

// Shutdown flushes what is buffered and stops the exporter, bounded by shutdownTimeout
func (l *lifecycle) Shutdown(ctx context.Context) error {
	if l.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := l.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s provider: %w", l.signal, err)
	}
	if l.log != nil {
		l.log.Info("telemetry provider shut down", zap.String("signal", l.signal))
	}
	return nil
}
