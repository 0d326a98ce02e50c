// Package tracing installs the OpenTelemetry tracer provider. Without an
// OTLP endpoint a no-op provider is used so spans cost nothing.
package tracing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/compliance-reports/pkg/lifecycle"
)

const instrumentation = "github.com/JaimeStill/compliance-reports"

// System owns the tracer provider for the process.
type System interface {
	Tracer() trace.Tracer
	Start(lc *lifecycle.Coordinator) error
}

type tracing struct {
	provider trace.TracerProvider
	shutdown func(context.Context) error
	logger   *slog.Logger
}

// New builds the provider and registers it globally along with the W3C propagator.
func New(ctx context.Context, cfg *Config, version string, logger *slog.Logger) (System, error) {
	t := &tracing{
		provider: noop.NewTracerProvider(),
		shutdown: func(context.Context) error { return nil },
		logger:   logger.With("system", "tracing"),
	}

	if cfg.Endpoint != "" {
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}

		exporter, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		))
		if err != nil {
			return nil, fmt.Errorf("build otel resource: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		)
		t.provider = tp
		t.shutdown = tp.Shutdown
	}

	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return t, nil
}

func (t *tracing) Tracer() trace.Tracer {
	return t.provider.Tracer(instrumentation)
}

// Start flushes pending spans on shutdown.
func (t *tracing) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := t.shutdown(ctx); err != nil {
			t.logger.Error("tracer shutdown failed", "error", err)
		}
	})
	return nil
}
