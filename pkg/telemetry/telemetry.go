// Package telemetry installs the OpenTelemetry tracer provider that the
// publisher reports spans to.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/config"
)

const serviceName = "segaudit"

// Provider owns the tracer provider for one process.
type Provider struct {
	tp  trace.TracerProvider
	sdk *sdktrace.TracerProvider
}

// Setup builds a tracer provider for cfg. Console spans are written to w.
// When tracing is disabled the returned provider is a no-op and the global
// provider is left alone.
func Setup(ctx context.Context, cfg config.TraceConfig, version string, w io.Writer) (*Provider, error) {
	if !cfg.Enabled() {
		return &Provider{tp: noop.NewTracerProvider()}, nil
	}

	var opt sdktrace.TracerProviderOption
	switch cfg.Exporter {
	case config.TraceConsole:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("telemetry: console exporter: %w", err)
		}
		// Spans are written as they end; a CLI run is too short for batching.
		opt = sdktrace.WithSyncer(exp)
	case config.TraceOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("telemetry: otlp exporter: %w", err)
		}
		opt = sdktrace.WithBatcher(exp)
	default:
		return nil, fmt.Errorf("telemetry: unsupported exporter %q", cfg.Exporter)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		opt,
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(sdk)
	return &Provider{tp: sdk, sdk: sdk}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// TracerProvider returns the provider to hand to instrumented components.
func (p *Provider) TracerProvider() trace.TracerProvider { return p.tp }

// Enabled reports whether spans leave the process.
func (p *Provider) Enabled() bool { return p.sdk != nil }

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
