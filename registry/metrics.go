package registry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/skillsenselab/regkit/logger"
)

const meterName = "github.com/skillsenselab/regkit/registry"

// registryMetrics holds OpenTelemetry instruments for registry activity.
// Instruments come from the global meter provider; without one configured
// they are no-ops.
type registryMetrics struct {
	registryID       string
	creationTotal    metric.Int64Counter
	creationFailed   metric.Int64Counter
	creationDuration metric.Float64Histogram
	destructionTotal metric.Int64Counter
}

func newRegistryMetrics(registryID string) *registryMetrics {
	meter := otel.Meter(meterName)
	m := &registryMetrics{registryID: registryID}

	var err error
	if m.creationTotal, err = meter.Int64Counter("registry.creation.total",
		metric.WithDescription("Total number of successful instance constructions"),
	); err != nil {
		logger.Warn("failed to create creation counter", logger.ErrorFields("metrics", err))
	}
	if m.creationFailed, err = meter.Int64Counter("registry.creation.failed",
		metric.WithDescription("Total number of failed instance constructions"),
	); err != nil {
		logger.Warn("failed to create failure counter", logger.ErrorFields("metrics", err))
	}
	if m.creationDuration, err = meter.Float64Histogram("registry.creation.duration",
		metric.WithDescription("Duration of instance construction in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		logger.Warn("failed to create duration histogram", logger.ErrorFields("metrics", err))
	}
	if m.destructionTotal, err = meter.Int64Counter("registry.destruction.total",
		metric.WithDescription("Total number of destroyed instances"),
	); err != nil {
		logger.Warn("failed to create destruction counter", logger.ErrorFields("metrics", err))
	}

	return m
}

func (m *registryMetrics) recordCreation(name string, duration time.Duration, ok bool) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("registry_id", m.registryID),
		attribute.String("instance", name),
	)
	if ok {
		if m.creationTotal != nil {
			m.creationTotal.Add(ctx, 1, attrs)
		}
	} else if m.creationFailed != nil {
		m.creationFailed.Add(ctx, 1, attrs)
	}
	if m.creationDuration != nil {
		m.creationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("registry_id", m.registryID),
		))
	}
}

func (m *registryMetrics) recordDestruction(name string) {
	if m.destructionTotal == nil {
		return
	}
	m.destructionTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("registry_id", m.registryID),
		attribute.String("instance", name),
	))
}
