package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Error types reported on the authclient.errors.total counter
const (
	ErrorTypeClient    = "client_error"
	ErrorTypeServer    = "server_error"
	ErrorTypeTransport = "transport"
	ErrorTypeDecode    = "decode"
)

// Metrics holds all metric instruments for the auth client
type Metrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ErrorsTotal     metric.Int64Counter
}

// newMetrics creates and registers all metric instruments
func newMetrics(inst *Instrumentation) (*Metrics, error) {
	meter := inst.Meter("client")
	m := &Metrics{}

	var err error
	m.RequestsTotal, err = meter.Int64Counter(
		"authclient.requests.total",
		metric.WithDescription("Total number of requests sent to the authorization server"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create requests.total counter: %w", err)
	}

	m.RequestDuration, err = meter.Float64Histogram(
		"authclient.request.duration",
		metric.WithDescription("Authorization server round trip duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request.duration histogram: %w", err)
	}

	m.ErrorsTotal, err = meter.Int64Counter(
		"authclient.errors.total",
		metric.WithDescription("Number of failed authorization server calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create errors.total counter: %w", err)
	}

	return m, nil
}

// RecordRequest records a completed round trip. statusCode is 0 when no response was received.
func (m *Metrics) RecordRequest(ctx context.Context, operation string, statusCode int, durationMs float64) {
	m.RequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("status", statusCode),
	))
	m.RequestDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordError records a failed call with one of the ErrorType* values
func (m *Metrics) RecordError(ctx context.Context, operation, errorType string) {
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("error_type", errorType),
	))
}

// ErrorTypeForStatus classifies a non-success HTTP status
func ErrorTypeForStatus(statusCode int) string {
	if statusCode >= 500 {
		return ErrorTypeServer
	}
	return ErrorTypeClient
}
