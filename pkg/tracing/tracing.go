package tracing

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "moviefinder"

// Init installs a global OTLP/HTTP tracer provider if
// OTEL_EXPORTER_OTLP_ENDPOINT is set. The exporter reads the rest of its
// settings from the standard OTEL_* variables.
// Returns a shutdown function that must be called before process exit.
func Init(ctx context.Context, logger zerolog.Logger) (shutdown func()) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return func() {}
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("otlp exporter disabled")
		return func() {}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
	)
	otel.SetTracerProvider(tp)
	logger.Info().Str("endpoint", endpoint).Msg("otlp tracing enabled")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}
}
