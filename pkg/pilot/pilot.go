// Package pilot contains the decision makers driving a vehicle.
package pilot

// Controllable is the part of a vehicle a pilot steers.
type Controllable interface {
	X() float64
	Y() float64
	Angle() float64
	Speed() float64
	SetAccelerating(accelerating bool)
	SetBraking(braking bool)
	SetDirection(direction float64)
}

// Controls is the state of the driving controls for one tick.
type Controls struct {
	Accelerate bool
	Brake      bool
	Direction  float64 // -1 (left) .. 1 (right)
	Quit       bool
}

func apply(v Controllable, c Controls) {
	v.SetAccelerating(c.Accelerate)
	v.SetBraking(c.Brake)
	v.SetDirection(c.Direction)
}
