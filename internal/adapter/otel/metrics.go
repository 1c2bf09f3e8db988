package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "roamguide"

// Metrics holds all RoamGuide metric instruments.
type Metrics struct {
	TurnsHandled      metric.Int64Counter
	TurnsFailed       metric.Int64Counter
	RunsSuspended     metric.Int64Counter
	ApprovalsGranted  metric.Int64Counter
	ApprovalsDeclined metric.Int64Counter
	RateLimited       metric.Int64Counter
	TurnDuration      metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TurnsHandled, err = meter.Int64Counter("roamguide.turns.handled",
		metric.WithDescription("Number of conversation turns handled"))
	if err != nil {
		return nil, err
	}

	m.TurnsFailed, err = meter.Int64Counter("roamguide.turns.failed",
		metric.WithDescription("Number of conversation turns that failed upstream"))
	if err != nil {
		return nil, err
	}

	m.RunsSuspended, err = meter.Int64Counter("roamguide.runs.suspended",
		metric.WithDescription("Number of agent runs suspended awaiting approval"))
	if err != nil {
		return nil, err
	}

	m.ApprovalsGranted, err = meter.Int64Counter("roamguide.approvals.granted",
		metric.WithDescription("Number of pending approvals granted"))
	if err != nil {
		return nil, err
	}

	m.ApprovalsDeclined, err = meter.Int64Counter("roamguide.approvals.declined",
		metric.WithDescription("Number of pending approvals declined or re-asked"))
	if err != nil {
		return nil, err
	}

	m.RateLimited, err = meter.Int64Counter("roamguide.requests.ratelimited",
		metric.WithDescription("Number of requests rejected by the rate limiter"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("roamguide.turn.duration_seconds",
		metric.WithDescription("Conversation turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
