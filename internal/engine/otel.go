package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/hexfront/engine/internal/engine"

// registerMetrics exposes the per-player event queue depth.
func (c *Core) registerMetrics() error {
	m := otel.Meter(instrumentationName)
	queued, err := m.Int64ObservableGauge(
		"engine.events.queued",
		metric.WithDescription("Events waiting to be drained, per player"),
	)
	if err != nil {
		return fmt.Errorf("creating queued gauge: %w", err)
	}
	c.gauge, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for _, p := range c.players {
			o.ObserveInt64(queued, int64(p.events.Len()),
				metric.WithAttributes(attribute.Int("player", int(p.id))))
		}
		return nil
	}, queued)
	if err != nil {
		return fmt.Errorf("registering queued gauge: %w", err)
	}
	return nil
}
