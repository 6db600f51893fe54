package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

func TestInitDisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	before := otel.GetTracerProvider()

	var buf bytes.Buffer
	shutdown := Init(context.Background(), zerolog.New(&buf))
	shutdown()

	if otel.GetTracerProvider() != before {
		t.Error("tracer provider should be left untouched")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}
}

func TestInitWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	var buf bytes.Buffer
	shutdown := Init(context.Background(), zerolog.New(&buf))

	if otel.GetTracerProvider() == before {
		t.Error("expected an SDK tracer provider to be installed")
	}
	if !bytes.Contains(buf.Bytes(), []byte("otlp tracing enabled")) {
		t.Errorf("expected enable log, got %s", buf.String())
	}
	shutdown()
}
