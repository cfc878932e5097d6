// Package telemetry configures OpenTelemetry tracing and metrics for the swap
// node and provides span helpers for the block lifecycle.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	serviceName    = "tokenswap"
	serviceVersion = "1.0.0"
)

// Config selects where replay spans go and whether otel instruments are
// exported through prometheus.
type Config struct {
	Enabled           bool    `mapstructure:"enabled"`
	OTLPEndpoint      string  `mapstructure:"otlp-endpoint"`
	SampleRate        float64 `mapstructure:"sample-rate"`
	Environment       string  `mapstructure:"environment"`
	PrometheusEnabled bool    `mapstructure:"prometheus-enabled"`
	ChainID           string  `mapstructure:"-"`
}

// Provider owns the global tracer and meter providers for one replay run.
type Provider struct {
	config Config
	traces *tracesdk.TracerProvider
	meters *metricsdk.MeterProvider
}

// NewProvider installs the configured providers as the otel globals. With
// tracing disabled the globals stay no-op and the provider holds nothing.
func NewProvider(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		attribute.String("environment", cfg.Environment),
		attribute.String("chain.id", cfg.ChainID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if p.traces, err = newTracerProvider(cfg, res); err != nil {
		return nil, err
	}
	otel.SetTracerProvider(p.traces)

	if cfg.PrometheusEnabled {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		p.meters = metricsdk.NewMeterProvider(metricsdk.WithResource(res), metricsdk.WithReader(exporter))
		otel.SetMeterProvider(p.meters)
	}
	return p, nil
}

func validateConfig(cfg Config) error {
	if cfg.OTLPEndpoint == "" {
		return errors.New("otlp endpoint is required")
	}
	if _, err := url.Parse(cfg.OTLPEndpoint); err != nil {
		return fmt.Errorf("invalid otlp endpoint: %w", err)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return errors.New("sample rate must be between 0 and 1")
	}
	return nil
}

// newTracerProvider batches spans to an OTLP/HTTP collector. The endpoint is
// accepted with or without a scheme.
func newTracerProvider(cfg Config, res *resource.Resource) (*tracesdk.TracerProvider, error) {
	host := strings.TrimPrefix(strings.TrimPrefix(cfg.OTLPEndpoint, "http://"), "https://")
	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(host),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithURLPath("/v1/traces"),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter, tracesdk.WithBatchTimeout(5*time.Second)),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	), nil
}

// Shutdown flushes pending spans and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.traces != nil {
		if err := p.traces.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.meters != nil {
		if err := p.meters.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// HealthCheck backs the /health route of the replay metrics server.
func (p *Provider) HealthCheck() error {
	if !p.config.Enabled {
		return nil
	}
	if p.traces == nil {
		return errors.New("tracer provider not initialized")
	}
	if p.config.PrometheusEnabled && p.meters == nil {
		return errors.New("meter provider not initialized but prometheus is enabled")
	}
	return nil
}

// StartBlockSpan opens the span covering one block, from begin to commit or discard.
func StartBlockSpan(ctx context.Context, height int64, chainID string) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "block.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("block.height", height),
			attribute.String("chain.id", chainID),
		),
	)
}

// StartActionSpan opens a child span for one delivered action.
func StartActionSpan(ctx context.Context, action string, height int64) (context.Context, trace.Span) {
	return otel.Tracer(serviceName).Start(ctx, "action.deliver",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("block.height", height),
			attribute.String("action", action),
		),
	)
}

// RecordError marks the span failed. Nil spans and nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanStatus(span trace.Span, success bool, message string) {
	if span == nil {
		return
	}
	if success {
		span.SetStatus(codes.Ok, message)
		return
	}
	span.SetStatus(codes.Error, message)
}
