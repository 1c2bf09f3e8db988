// Package otel provides metric instruments and a stub for tracing setup.
// Exporter wiring is left to the deployment environment; without it the
// global providers are no-ops.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the trace provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer returns a no-op shutdown function. A real OTLP exporter and
// TracerProvider can be installed here without touching callers.
func InitTracer(serviceName string) ShutdownFunc {
	slog.Info("otel: tracer not configured, using no-op provider", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}
