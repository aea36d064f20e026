package world

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/mpapenbr/racesim/log"
)

type worldMetrics struct {
	laps         metric.Int64Counter
	finishes     metric.Int64Counter
	eliminations metric.Int64Counter
	pickups      metric.Int64Counter
	tick         metric.Float64Histogram
}

//nolint:funlen // registration only
func newWorldMetrics(meter metric.Meter, w *World, l *log.Logger) *worldMetrics {
	ret := &worldMetrics{}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit("{count}"))
		if err != nil {
			l.Error("failed to register metric", log.String("metric", name), log.ErrorField(err))
			return noop.Int64Counter{}
		}
		return c
	}
	ret.laps = counter("racesim.laps", "Number of completed laps")
	ret.finishes = counter("racesim.finishes", "Number of racers finishing the race")
	ret.eliminations = counter("racesim.eliminations", "Number of racers removed from the race")
	ret.pickups = counter("racesim.pickups", "Number of picked bonus spots")

	var err error
	if ret.tick, err = meter.Float64Histogram("racesim.tick.duration",
		metric.WithDescription("processing of a world tick"),
		metric.WithUnit("s")); err != nil {
		l.Error("failed to register metric",
			log.String("metric", "racesim.tick.duration"),
			log.ErrorField(err))
		ret.tick = noop.Float64Histogram{}
	}

	if _, err = meter.Int64ObservableGauge("racesim.racers.active",
		metric.WithDescription("Number of racers on track"),
		metric.WithUnit("{count}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(w.active.Load())
			return nil
		})); err != nil {
		l.Error("failed to register metric",
			log.String("metric", "racesim.racers.active"),
			log.ErrorField(err))
	}
	return ret
}
