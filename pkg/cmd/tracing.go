package cmd

import (
	"context"
	"log/slog"

	"github.com/quercle/operion-quercle/pkg/otelhelper"
	"go.opentelemetry.io/otel/trace"
)

// NewTracer sets up OTLP tracing when enabled. Otherwise it returns a tracer
// from the global no-op provider and a shutdown that does nothing.
//
// nolint:ireturn // Returning interface is intentional for OpenTelemetry tracing
func NewTracer(ctx context.Context, log *slog.Logger, enabled bool, serviceName string) (trace.Tracer, otelhelper.ShutdownFunc) {
	noop := func(context.Context) error { return nil }

	if !enabled {
		return otelhelper.Tracer(serviceName), noop
	}

	tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
	if err != nil {
		log.WarnContext(ctx, "Tracing disabled, failed to create tracer", "error", err)

		return otelhelper.Tracer(serviceName), noop
	}

	log.InfoContext(ctx, "Tracing enabled", "service", serviceName)

	return tracer, shutdown
}
