package racer

import "github.com/mpapenbr/racesim/pkg/model"

// World receives notifications of a racer. Implementations must not fail
// the tick of the calling racer.
type World interface {
	ShowScoreIndicator(amount int, x, y float64)
}

// Vehicle is the physical body of a racer.
type Vehicle interface {
	X() float64
	Y() float64
	Angle() float64
	SetAccelerating(accelerating bool)
	// Act advances the physics. It returns false if the vehicle is destroyed.
	Act(dt float64) bool
	Dispose()
	SetCollisionInfo(category, mask model.CollisionCategory)
	Material() model.Material
	SetGroundDrag(factor float64)
}

// Pilot controls a vehicle. Human and AI pilots implement it.
type Pilot interface {
	// Act returns false if the racer is to be removed.
	Act(dt float64) bool
}

// Scorer receives points from pickups.
type Scorer interface {
	RecordScore(delta int, x, y float64)
}
