package component

import "github.com/mpapenbr/racesim/pkg/model"

const (
	// SandDrag is the speed factor applied while driving on sand.
	SandDrag = 0.5
	// LavaDamagePerSecond is the health lost per second on lava.
	LavaDamagePerSecond = 40.0
)

// GroundVehicle is the part of a vehicle the ground handler works on.
type GroundVehicle interface {
	Material() model.Material
	SetGroundDrag(factor float64)
}

type Damageable interface {
	Damage(amount float64)
}

// GroundCollisionHandler applies the effects of the ground below a vehicle.
type GroundCollisionHandler struct {
	vehicle GroundVehicle
	health  Damageable
}

func NewGroundCollisionHandler(vehicle GroundVehicle, health Damageable) *GroundCollisionHandler {
	return &GroundCollisionHandler{vehicle: vehicle, health: health}
}

// Act returns false if the vehicle fell into a hole.
func (g *GroundCollisionHandler) Act(dt float64) bool {
	switch g.vehicle.Material() {
	case model.MaterialHole:
		return false
	case model.MaterialLava:
		g.vehicle.SetGroundDrag(1)
		g.health.Damage(LavaDamagePerSecond * dt)
	case model.MaterialSand:
		g.vehicle.SetGroundDrag(SandDrag)
	default:
		g.vehicle.SetGroundDrag(1)
	}
	return true
}
