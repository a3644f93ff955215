package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	exporterDialTimeout   = time.Second * 3
	defaultMetricInterval = time.Second * 5
)

// Enabled reports whether an endpoint was configured at all.
func (c OtlpConnConfig) Enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

func (c OtlpConnConfig) transport() string {
	if c.GrpcEndpoint != "" {
		return "grpc"
	}
	return "http"
}

func (c OtlpConnConfig) logInitialized(signal string) {
	endpoint := c.HttpEndpoint
	if c.GrpcEndpoint != "" {
		endpoint = c.GrpcEndpoint
	}
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", c.transport(),
		"endpoint", endpoint,
		"headers", len(c.Headers) > 0,
	)
}

// a nil provider means traces were left unconfigured
func newTraceProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig) (*trace.TracerProvider, error) {
	if !c.Enabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var (
		exporter trace.SpanExporter
		err      error
	)
	switch c.transport() {
	case "grpc":
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(c.GrpcEndpoint),
			otlptracegrpc.WithHeaders(c.Headers),
		)
	default:
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(c.HttpEndpoint),
			otlptracehttp.WithHeaders(c.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	c.logInitialized("traces")

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

// a nil provider means metrics were left unconfigured
func newMetricProvider(ctx context.Context, r *resource.Resource, c OtlpConnConfig, interval time.Duration) (*metric.MeterProvider, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if interval <= 0 {
		interval = defaultMetricInterval
	}

	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	var (
		exporter metric.Exporter
		err      error
	)
	switch c.transport() {
	case "grpc":
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(c.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(c.Headers),
		)
	default:
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(c.HttpEndpoint),
			otlpmetrichttp.WithHeaders(c.Headers),
		)
	}
	if err != nil {
		return nil, err
	}
	c.logInitialized("metrics")

	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
		metric.WithResource(r),
	), nil
}
