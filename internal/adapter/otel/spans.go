package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "roamguide"

// StartTurnSpan starts a span covering one conversation turn.
func StartTurnSpan(ctx context.Context, sessionID, userID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "turn",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("user.id", userID),
		),
	)
}

// StartResumeSpan starts a span covering the resumption of a suspended run.
func StartResumeSpan(ctx context.Context, sessionID string, approved int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "resume",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.Int("resume.approved_calls", approved),
		),
	)
}
