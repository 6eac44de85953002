package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	providerCalls  otelmetric.Int64Counter
	callDuration   otelmetric.Float64Histogram
	shopsCollected otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracer: noop.NewTracerProvider().Tracer(serviceName)}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	providerCalls, _ := meter.Int64Counter(
		"provider.calls",
		otelmetric.WithDescription("Number of provider calls issued"),
	)

	callDuration, _ := meter.Float64Histogram(
		"provider.call.duration",
		otelmetric.WithDescription("Provider call duration"),
		otelmetric.WithUnit("ms"),
	)

	shopsCollected, _ := meter.Int64Counter(
		"pipeline.shops.collected",
		otelmetric.WithDescription("Enriched shops accumulated before dedup"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		tracer:         noop.NewTracerProvider().Tracer(serviceName),
		providerCalls:  providerCalls,
		callDuration:   callDuration,
		shopsCollected: shopsCollected,
	}
}

// EnableTracing switches the no-op tracer for a jaeger-exported one.
// Span coverage: run -> area -> page, plus one span per details call.
func (o *Observability) EnableTracing(serviceName, endpoint string) error {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	o.tracerProvider = provider
	o.tracer = provider.Tracer(serviceName)
	return nil
}

// StartSpan opens a span named name under ctx. With tracing disabled the
// returned span is a no-op; callers End() it either way.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordProviderCall(ctx context.Context, operation, status string) {
	if o.providerCalls != nil {
		o.providerCalls.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordCallDuration(ctx context.Context, operation string, duration time.Duration) {
	if o.callDuration != nil {
		o.callDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}

func (o *Observability) RecordShopsCollected(ctx context.Context, area string, count int) {
	if o.shopsCollected != nil {
		o.shopsCollected.Add(ctx, int64(count), otelmetric.WithAttributes(
			attribute.String("area", area),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
