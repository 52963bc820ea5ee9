package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "stylepass"

// Tracer is the package-wide tracer. It follows the global provider, so spans
// are no-ops until InitTracing installs an exporter.
var Tracer trace.Tracer = otel.Tracer(instrumentationName)

// InitTracing installs a batching OTLP/gRPC exporter for endpoint and returns
// a shutdown func that flushes pending spans. An empty endpoint leaves tracing
// disabled and returns a no-op shutdown.
func InitTracing(ctx context.Context, endpoint, serviceName string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(ServiceResource(serviceName)),
	)
	SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// SetTracerProvider installs tp globally and rebinds Tracer to it.
func SetTracerProvider(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	Tracer = tp.Tracer(instrumentationName)
}

// ServiceResource describes this process to trace backends.
func ServiceResource(serviceName string) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", serviceName))
}
