// Package vehicle contains a simple kinematic vehicle.
// It moves a point along its heading; there is no tire or mass model.
package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mpapenbr/racesim/pkg/model"
)

// Terrain provides the ground material below a position.
// track.MapInfo satisfies it.
type Terrain interface {
	MaterialAt(x, y float64) model.Material
}

// Vehicle is a point mass driving on a terrain.
type Vehicle struct {
	pos   mgl64.Vec2
	angle float64 // radians, 0 is +x, screen coordinates
	speed float64 // world units per second

	accelerating bool
	braking      bool
	direction    float64 // steering -1 (left) .. 1 (right)
	groundDrag   float64

	terrain   Terrain
	destroyed bool
	disposed  bool
	category  model.CollisionCategory
	mask      model.CollisionCategory
	onDispose func(v *Vehicle)

	maxSpeed     float64
	acceleration float64
	brakeForce   float64
	turnRate     float64
	friction     float64
	radius       float64
}

type Option func(v *Vehicle)

func WithMaxSpeed(speed float64) Option {
	return func(v *Vehicle) {
		v.maxSpeed = speed
	}
}

func WithAcceleration(accel float64) Option {
	return func(v *Vehicle) {
		v.acceleration = accel
	}
}

// WithTurnRate sets the maximum turn rate in radians per second.
func WithTurnRate(rate float64) Option {
	return func(v *Vehicle) {
		v.turnRate = rate
	}
}

func WithRadius(radius float64) Option {
	return func(v *Vehicle) {
		v.radius = radius
	}
}

// WithOnDispose registers a function called once when the vehicle is released.
func WithOnDispose(f func(v *Vehicle)) Option {
	return func(v *Vehicle) {
		v.onDispose = f
	}
}

func NewVehicle(terrain Terrain, pos mgl64.Vec2, angle float64, opts ...Option) *Vehicle {
	ret := &Vehicle{
		pos:          pos,
		angle:        angle,
		terrain:      terrain,
		groundDrag:   1,
		maxSpeed:     12,
		acceleration: 8,
		brakeForce:   16,
		turnRate:     math.Pi,
		friction:     4,
		radius:       0.5,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Act moves the vehicle. It returns false once the vehicle was destroyed.
func (v *Vehicle) Act(dt float64) bool {
	if v.destroyed {
		return false
	}
	switch {
	case v.accelerating:
		v.speed += v.acceleration * dt
	case v.braking:
		v.speed -= v.brakeForce * dt
	default:
		v.speed -= v.friction * dt
	}
	v.speed = math.Max(0, math.Min(v.speed, v.maxSpeed*v.groundDrag))

	if v.speed > 0 {
		v.angle = normalizeAngle(v.angle + v.direction*v.turnRate*dt)
	}
	v.pos = v.pos.Add(v.Heading().Mul(v.speed * dt))
	return true
}

func (v *Vehicle) SetAccelerating(accelerating bool) {
	v.accelerating = accelerating
}

func (v *Vehicle) SetBraking(braking bool) {
	v.braking = braking
}

// SetDirection sets the steering, negative values turn left.
func (v *Vehicle) SetDirection(direction float64) {
	v.direction = math.Max(-1, math.Min(1, direction))
}

func (v *Vehicle) SetGroundDrag(factor float64) {
	v.groundDrag = factor
}

func (v *Vehicle) SetCollisionInfo(category, mask model.CollisionCategory) {
	v.category = category
	v.mask = mask
}

func (v *Vehicle) CollisionInfo() (category, mask model.CollisionCategory) {
	return v.category, v.mask
}

// Material returns the ground material below the vehicle.
func (v *Vehicle) Material() model.Material {
	return v.terrain.MaterialAt(v.pos.X(), v.pos.Y())
}

// Destroy marks the vehicle as wrecked, the next Act reports removal.
func (v *Vehicle) Destroy() {
	v.destroyed = true
}

// Dispose releases the vehicle. Further calls have no effect.
func (v *Vehicle) Dispose() {
	if v.disposed {
		return
	}
	v.disposed = true
	v.speed = 0
	if v.onDispose != nil {
		v.onDispose(v)
	}
}

func (v *Vehicle) SetPosition(pos mgl64.Vec2) {
	v.pos = pos
}

// Heading is the unit vector of the driving direction.
func (v *Vehicle) Heading() mgl64.Vec2 {
	return mgl64.Vec2{math.Cos(v.angle), math.Sin(v.angle)}
}

func (v *Vehicle) X() float64           { return v.pos.X() }
func (v *Vehicle) Y() float64           { return v.pos.Y() }
func (v *Vehicle) Position() mgl64.Vec2 { return v.pos }
func (v *Vehicle) Angle() float64       { return v.angle }
func (v *Vehicle) Speed() float64       { return v.speed }
func (v *Vehicle) Direction() float64   { return v.direction }
func (v *Vehicle) Radius() float64      { return v.radius }
func (v *Vehicle) MaxSpeed() float64    { return v.maxSpeed }
func (v *Vehicle) IsDestroyed() bool    { return v.destroyed }
func (v *Vehicle) IsDisposed() bool     { return v.disposed }

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
