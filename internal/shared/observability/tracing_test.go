package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), "", "stylepass")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSetTracerProvider(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { SetTracerProvider(previous) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(recorder),
		sdktrace.WithResource(ServiceResource("svc")),
	)
	SetTracerProvider(tp)

	_, span := Tracer.Start(context.Background(), "stylepass.ProcessFile")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "stylepass.ProcessFile" {
		t.Fatalf("unexpected span name %q", spans[0].Name())
	}
	found := false
	for _, attr := range spans[0].Resource().Attributes() {
		if attr.Key == "service.name" && attr.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected service.name attribute, got %v", spans[0].Resource().Attributes())
	}
}
