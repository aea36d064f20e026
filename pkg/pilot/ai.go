package pilot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeebo/xxh3"
)

const (
	defaultReach     = 3.0
	defaultSteerGain = 2.0
	// slow down in front of turns sharper than this (radians)
	sharpTurn = math.Pi / 3
	lanes     = 3
)

// Route is the line an AI pilot follows.
// track.MapInfo satisfies it.
type Route interface {
	Centerline() []mgl64.Vec2
	RoadWidth() float64
}

// AI drives along the centerline of the track.
// Each AI keeps its own lane, derived from its name, so a field of AI
// pilots does not drive in a single file.
type AI struct {
	vehicle    Controllable
	waypoints  []mgl64.Vec2
	target     int
	reach      float64
	gain       float64
	terminated bool
}

type AIOption func(a *AI)

// WithReach sets the distance at which a waypoint counts as reached.
func WithReach(reach float64) AIOption {
	return func(a *AI) {
		a.reach = reach
	}
}

func WithSteerGain(gain float64) AIOption {
	return func(a *AI) {
		a.gain = gain
	}
}

func NewAI(name string, vehicle Controllable, route Route, opts ...AIOption) *AI {
	ret := &AI{
		vehicle: vehicle,
		target:  -1,
		reach:   defaultReach,
		gain:    defaultSteerGain,
	}
	ret.waypoints = laneWaypoints(route.Centerline(), LaneOffset(name, route.RoadWidth()))
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// LaneOffset returns the lateral offset of the lane assigned to name.
// Lanes are spread over the inner half of the road.
func LaneOffset(name string, roadWidth float64) float64 {
	lane := int(xxh3.HashString(name)%lanes) - lanes/2
	return float64(lane) * roadWidth / 4
}

func laneWaypoints(centerline []mgl64.Vec2, offset float64) []mgl64.Vec2 {
	n := len(centerline)
	ret := make([]mgl64.Vec2, n)
	for i, p := range centerline {
		dir := centerline[(i+1)%n].Sub(centerline[(i+n-1)%n])
		if dir.Len() == 0 {
			ret[i] = p
			continue
		}
		dir = dir.Normalize()
		normal := mgl64.Vec2{-dir.Y(), dir.X()}
		ret[i] = p.Add(normal.Mul(offset))
	}
	return ret
}

// Terminate makes the next Act report removal.
func (a *AI) Terminate() {
	a.terminated = true
}

// Act steers towards the next waypoint.
func (a *AI) Act(dt float64) bool {
	if a.terminated {
		return false
	}
	if len(a.waypoints) == 0 {
		a.vehicle.SetAccelerating(false)
		return true
	}
	pos := mgl64.Vec2{a.vehicle.X(), a.vehicle.Y()}
	if a.target < 0 {
		a.target = a.firstTarget(pos)
	}
	if pos.Sub(a.waypoints[a.target]).Len() < a.reach {
		a.target = (a.target + 1) % len(a.waypoints)
	}

	diff := angleTo(pos, a.waypoints[a.target], a.vehicle.Angle())
	a.vehicle.SetDirection(diff * a.gain)
	sharp := math.Abs(diff) > sharpTurn
	a.vehicle.SetAccelerating(!sharp)
	a.vehicle.SetBraking(sharp && a.vehicle.Speed() > 0)
	return true
}

// Target returns the waypoint the AI currently steers to.
func (a *AI) Target() (mgl64.Vec2, bool) {
	if a.target < 0 {
		return mgl64.Vec2{}, false
	}
	return a.waypoints[a.target], true
}

// firstTarget picks the first waypoint in front of pos.
func (a *AI) firstTarget(pos mgl64.Vec2) int {
	nearest := 0
	best := math.MaxFloat64
	for i, p := range a.waypoints {
		if d := pos.Sub(p).Len(); d < best {
			nearest, best = i, d
		}
	}
	heading := mgl64.Vec2{math.Cos(a.vehicle.Angle()), math.Sin(a.vehicle.Angle())}
	if a.waypoints[nearest].Sub(pos).Dot(heading) < 0 {
		return (nearest + 1) % len(a.waypoints)
	}
	return nearest
}

// angleTo returns the signed angle between the current heading and the
// direction to target, in [-Pi, Pi].
func angleTo(pos, target mgl64.Vec2, heading float64) float64 {
	to := target.Sub(pos)
	diff := math.Atan2(to.Y(), to.X()) - heading
	for diff > math.Pi {
		diff -= 2 * math.Pi
	}
	for diff < -math.Pi {
		diff += 2 * math.Pi
	}
	return diff
}
