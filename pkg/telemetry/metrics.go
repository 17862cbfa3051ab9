package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ghuser/itemservice"

// StoreMetrics records store operation counts and latencies through the
// global MeterProvider, so they appear on /metrics once Setup has run.
type StoreMetrics struct {
	ops      metric.Int64Counter
	duration metric.Float64Histogram
}

// NewStoreMetrics registers the store instruments on the global meter.
func NewStoreMetrics() (*StoreMetrics, error) {
	meter := otel.Meter(instrumentationName)

	ops, err := meter.Int64Counter("item_store_operations",
		metric.WithDescription("Item store operations by name and outcome"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("item_store_operation_duration",
		metric.WithDescription("Item store operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &StoreMetrics{ops: ops, duration: duration}, nil
}

// Record counts one op with its outcome ("ok", "not_found", "error").
// A nil receiver records nothing.
func (m *StoreMetrics) Record(ctx context.Context, op, outcome string, started time.Time) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	m.ops.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
}
