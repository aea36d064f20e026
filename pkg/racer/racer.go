package racer

import (
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/component"
	"github.com/mpapenbr/racesim/pkg/model"
	"github.com/mpapenbr/racesim/pkg/render"
	"github.com/mpapenbr/racesim/pkg/track"
)

// ErrNoPilot is raised when a racer is ticked before a pilot was assigned.
var ErrNoPilot = errors.New("racer has no pilot")

const collisionMask = model.CategoryWall |
	model.CategoryRacer | model.CategoryRacerBullet |
	model.CategoryAIVehicle | model.CategoryFlatAIVehicle |
	model.CategoryGift

// Racer is a vehicle competing in a race.
type Racer struct {
	id       uuid.UUID
	name     string
	world    World
	vehicle  Vehicle
	renderer *render.VehicleRenderer
	health   *component.Health
	ground   *component.GroundCollisionHandler
	pilot    Pilot
	phases   []Phase
	lap      LapProgress
	score    int
	disposed bool
	l        *log.Logger
}

type Option func(r *Racer)

func WithName(name string) Option {
	return func(r *Racer) {
		r.name = name
	}
}

func WithID(id uuid.UUID) Option {
	return func(r *Racer) {
		r.id = id
	}
}

func WithInitialHealth(value float64) Option {
	return func(r *Racer) {
		r.health.SetInitialHealth(value)
	}
}

func WithHealthDecay(perSecond float64) Option {
	return func(r *Racer) {
		component.WithDecay(perSecond)(r.health)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Racer) {
		r.l = l
	}
}

func NewRacer(world World, vehicle Vehicle, opts ...Option) *Racer {
	r := &Racer{
		world:   world,
		vehicle: vehicle,
		health:  component.NewHealth(model.PlayerHealth),
		l:       log.Default().Named("racer"),
	}
	vehicle.SetCollisionInfo(model.CategoryRacer, collisionMask)
	for _, opt := range opts {
		opt(r)
	}
	if r.id == uuid.Nil {
		r.id = uuid.Must(uuid.NewV4())
	}
	if r.name == "" {
		r.name = r.id.String()[:8]
	}
	r.l = r.l.With(log.String("racer", r.name))
	r.renderer = render.NewVehicleRenderer(vehicle, r.health)
	r.ground = component.NewGroundCollisionHandler(vehicle, r.health)
	r.phases = []Phase{
		PhaseFunc(vehicle.Act),
		PhaseFunc(r.control),
		r.ground,
		r.health,
	}
	return r
}

func (r *Racer) SetPilot(pilot Pilot) {
	r.pilot = pilot
}

// Tick advances the racer by dt seconds. mapInfo is only used during the
// call. Tick returns false if the racer is to be removed from the race; the
// vehicle is released before returning. A removed racer stays inert.
func (r *Racer) Tick(dt float64, mapInfo *track.MapInfo) bool {
	if r.disposed {
		return false
	}
	if !r.lap.Finished {
		r.updatePosition(mapInfo)
	}
	keep := runPhases(r.phases, dt)
	if !keep {
		r.dispose()
	}
	return keep
}

// control lets the pilot drive until the race is finished.
func (r *Racer) control(dt float64) bool {
	if r.lap.Finished {
		r.vehicle.SetAccelerating(false)
		return true
	}
	if r.pilot == nil {
		panic(ErrNoPilot)
	}
	return r.pilot.Act(dt)
}

func (r *Racer) updatePosition(mapInfo *track.MapInfo) {
	pos := track.LapPositionAt(mapInfo.Table, r.vehicle.X(), r.vehicle.Y())
	switch r.lap.Advance(pos, mapInfo.TotalLaps) {
	case LapCompleted:
		r.l.Debug("lap completed", log.Int("lap", r.lap.LapCount))
	case LapReverted:
		r.l.Debug("crossed start line backwards", log.Int("lap", r.lap.LapCount))
	case RaceFinished:
		r.l.Info("finished", log.Int("laps", r.lap.LapCount), log.Int("score", r.score))
	case LapNone:
	}
}

func (r *Racer) dispose() {
	r.disposed = true
	r.l.Info("removed from race",
		log.Int("lap", r.lap.LapCount),
		log.Float64("health", r.health.Health()))
	r.vehicle.Dispose()
}

// RecordScore adds the bonus score and shows it at x, y.
// The bonus is fixed, delta is not applied.
func (r *Racer) RecordScore(delta int, x, y float64) {
	r.score += model.ScoreGiftPick
	r.l.Debug("score", log.Int("delta", delta), log.Int("score", r.score))
	r.world.ShowScoreIndicator(model.ScoreGiftPick, x, y)
}

// OnCollisionBegin reacts to the start of a contact.
func (r *Racer) OnCollisionBegin(other Contact) {
	if other.Kind == ContactPickup && other.Pickup != nil {
		other.Pickup.Pick(r)
	}
}

func (r *Racer) OnCollisionEnd(other Contact) {}

func (r *Racer) PreSolve(other Contact) {}

func (r *Racer) PostSolve(other Contact) {}

// Draw draws the given layer of the racer.
func (r *Racer) Draw(c render.Canvas, layer int) bool {
	return r.renderer.Draw(c, layer)
}

func (r *Racer) Renderer() *render.VehicleRenderer { return r.renderer }

func (r *Racer) ID() uuid.UUID             { return r.id }
func (r *Racer) Name() string              { return r.name }
func (r *Racer) Vehicle() Vehicle          { return r.vehicle }
func (r *Racer) Health() *component.Health { return r.health }
func (r *Racer) LapCount() int             { return r.lap.LapCount }
func (r *Racer) LapDistance() float64      { return r.lap.Position.LapDistance }
func (r *Racer) SectionID() int            { return r.lap.Position.SectionID }
func (r *Racer) IsFinished() bool          { return r.lap.Finished }
func (r *Racer) Score() int                { return r.score }
func (r *Racer) IsDisposed() bool          { return r.disposed }
func (r *Racer) X() float64                { return r.vehicle.X() }
func (r *Racer) Y() float64                { return r.vehicle.Y() }
func (r *Racer) LapProgress() LapProgress  { return r.lap }
