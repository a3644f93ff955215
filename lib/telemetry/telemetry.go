package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

func (t Telemetry) Shutdown(ctx context.Context) error {
	errlist := []error{}
	if t.TracerProvider != nil {
		err := t.TracerProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	if t.MeterProvider != nil {
		err := t.MeterProvider.Shutdown(ctx)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
}

type Config struct {
	Otlp OtlpConfig `json:"otlp"`
	// how often metrics are pushed, defaults to 5 seconds
	MetricIntervalSeconds int `json:"metric_interval_seconds"`
}

func Setup(ctx context.Context, serviceName string, config Config) (Telemetry, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}

	tel := Telemetry{}
	tel.TracerProvider, err = newTraceProvider(ctx, r, config.Otlp.Traces)
	if err != nil {
		return Telemetry{}, err
	}
	if tel.TracerProvider == nil {
		// spans are still recorded so that status and errors are
		// visible to in-process span processors
		tel.TracerProvider = trace.NewTracerProvider(trace.WithResource(r))
	}
	otel.SetTracerProvider(tel.TracerProvider)

	interval := time.Duration(config.MetricIntervalSeconds) * time.Second
	tel.MeterProvider, err = newMetricProvider(ctx, r, config.Otlp.Metrics, interval)
	if err != nil {
		tel.Shutdown(ctx)
		return Telemetry{}, err
	}
	if tel.MeterProvider != nil {
		otel.SetMeterProvider(tel.MeterProvider)
	}

	return tel, nil
}

// SetupLocal installs providers that record but never export, used
// when there is no collector to talk to.
func SetupLocal(serviceName string) (Telemetry, error) {
	r, err := newResource(serviceName)
	if err != nil {
		return Telemetry{}, err
	}
	tracerProvider := trace.NewTracerProvider(trace.WithResource(r))
	otel.SetTracerProvider(tracerProvider)
	return Telemetry{TracerProvider: tracerProvider}, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}
