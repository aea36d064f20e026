// Package world hosts a race: it spawns racers, dispatches contacts and
// ticks every racer once per frame.
package world

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/notify"
	"github.com/mpapenbr/racesim/pkg/racer"
	"github.com/mpapenbr/racesim/pkg/track"
	"github.com/mpapenbr/racesim/pkg/vehicle"
)

type (
	World struct {
		mapInfo  *track.MapInfo
		racers   *orderedmap.OrderedMap[uuid.UUID, *racer.Racer]
		retired  []*racer.Racer
		finished map[uuid.UUID]int // finish order, starting at 1
		spots    []*BonusSpot
		contacts contacts
		sink     notify.Sink
		spawned  int
		elapsed  time.Duration
		active   atomic.Int64 // read by the metrics collector
		meterP   metric.MeterProvider
		metrics  *worldMetrics
		l        *log.Logger
	}
	Option func(w *World)

	// PilotFactory creates the pilot for a spawned vehicle.
	PilotFactory func(v *vehicle.Vehicle) racer.Pilot
)

func WithSink(sink notify.Sink) Option {
	return func(w *World) {
		w.sink = sink
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		w.l = l
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(w *World) {
		w.meterP = mp
	}
}

func WithBonusSpots(spots ...*BonusSpot) Option {
	return func(w *World) {
		w.spots = append(w.spots, spots...)
	}
}

func New(mapInfo *track.MapInfo, opts ...Option) *World {
	ret := &World{
		mapInfo:  mapInfo,
		racers:   orderedmap.NewOrderedMap[uuid.UUID, *racer.Racer](),
		finished: map[uuid.UUID]int{},
		contacts: contacts{},
		sink:     notify.Multi{},
		meterP:   otel.GetMeterProvider(),
		l:        log.Default().Named("world"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.metrics = newWorldMetrics(ret.meterP.Meter("racesim.world"), ret, ret.l)
	return ret
}

func (w *World) MapInfo() *track.MapInfo {
	return w.mapInfo
}

// Spawn places a new vehicle on the next free grid slot and adds a racer
// driving it.
//
//nolint:whitespace // editor/linter issue
func (w *World) Spawn(
	name string,
	pilot PilotFactory,
	opts ...racer.Option,
) *racer.Racer {
	pos, angle := w.mapInfo.StartPosition(w.spawned)
	w.spawned++
	v := vehicle.NewVehicle(w.mapInfo, pos, angle,
		vehicle.WithOnDispose(func(v *vehicle.Vehicle) {
			w.l.Debug("vehicle released",
				log.String("racer", name),
				log.Float64("x", v.X()),
				log.Float64("y", v.Y()))
		}))
	opts = append([]racer.Option{
		racer.WithName(name),
		racer.WithLogger(w.l.Named("racer")),
	}, opts...)
	r := racer.NewRacer(w, v, opts...)
	r.SetPilot(pilot(v))
	w.Add(r)
	return r
}

// Add adds a racer created by the caller. The racer must have a pilot.
func (w *World) Add(r *racer.Racer) {
	w.racers.Set(r.ID(), r)
	w.active.Store(int64(w.racers.Len()))
	w.l.Info("racer added", log.String("racer", r.Name()), log.String("id", r.ID().String()))
}

// ShowScoreIndicator forwards a score indicator to the sink.
func (w *World) ShowScoreIndicator(amount int, x, y float64) {
	w.metrics.pickups.Add(context.Background(), 1)
	w.sink.ShowScoreIndicator(amount, x, y)
}

// Act advances the race by dt seconds. Contacts are dispatched first, then
// every racer is ticked in spawn order. Removed racers are collected after
// all racers were ticked.
func (w *World) Act(ctx context.Context, dt float64) {
	start := time.Now()
	defer func() {
		w.metrics.tick.Record(ctx, time.Since(start).Seconds())
	}()

	for _, s := range w.spots {
		s.Act(dt)
	}
	w.dispatchContacts()

	removed := []uuid.UUID{}
	for el := w.racers.Front(); el != nil; el = el.Next() {
		r := el.Value
		laps, wasFinished := r.LapCount(), r.IsFinished()
		keep := r.Tick(dt, w.mapInfo)
		// leaving the grid brings the lap count from -1 to 0, no lap done yet
		if diff := r.LapCount() - laps; diff > 0 && r.LapCount() > 0 {
			w.metrics.laps.Add(ctx, int64(diff))
		}
		if !wasFinished && r.IsFinished() {
			w.finished[r.ID()] = len(w.finished) + 1
			w.metrics.finishes.Add(ctx, 1)
			w.l.Info("racer finished",
				log.String("racer", r.Name()),
				log.Int("position", w.finished[r.ID()]),
				log.Duration("time", w.elapsed))
		}
		if !keep {
			removed = append(removed, el.Key)
		}
	}
	for _, id := range removed {
		r, _ := w.racers.Get(id)
		w.racers.Delete(id)
		w.contacts.forget(id.String())
		w.retired = append(w.retired, r)
		w.metrics.eliminations.Add(ctx, 1)
		w.l.Info("racer eliminated", log.String("racer", r.Name()), log.Int("lap", r.LapCount()))
	}
	w.active.Store(int64(w.racers.Len()))
	w.elapsed += time.Duration(dt * float64(time.Second))
}

// Done reports whether no racer is racing anymore.
func (w *World) Done() bool {
	for el := w.racers.Front(); el != nil; el = el.Next() {
		if !el.Value.IsFinished() {
			return false
		}
	}
	return true
}

// Racers returns the active racers in spawn order.
func (w *World) Racers() []*racer.Racer {
	ret := make([]*racer.Racer, 0, w.racers.Len())
	for el := w.racers.Front(); el != nil; el = el.Next() {
		ret = append(ret, el.Value)
	}
	return ret
}

func (w *World) Racer(id uuid.UUID) (*racer.Racer, bool) {
	return w.racers.Get(id)
}

// Retired returns the removed racers in order of removal.
func (w *World) Retired() []*racer.Racer {
	return w.retired
}

func (w *World) Spots() []*BonusSpot {
	return w.spots
}

// Elapsed is the simulated race time.
func (w *World) Elapsed() time.Duration {
	return w.elapsed
}
