package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mpapenbr/racesim/pkg/model"
	"github.com/mpapenbr/racesim/pkg/racer"
	"github.com/mpapenbr/racesim/pkg/track"
)

const (
	defaultSpotRadius  = 0.6
	defaultSpotRespawn = 5.0 // seconds
)

// BonusSpot is a pickup granting score. After being picked it is inactive
// until the respawn delay has passed.
type BonusSpot struct {
	pos      mgl64.Vec2
	radius   float64
	respawn  float64
	cooldown float64
	picks    int
}

type BonusOption func(b *BonusSpot)

func WithRespawn(seconds float64) BonusOption {
	return func(b *BonusSpot) {
		b.respawn = seconds
	}
}

func WithSpotRadius(radius float64) BonusOption {
	return func(b *BonusSpot) {
		b.radius = radius
	}
}

func NewBonusSpot(pos mgl64.Vec2, opts ...BonusOption) *BonusSpot {
	ret := &BonusSpot{pos: pos, radius: defaultSpotRadius, respawn: defaultSpotRespawn}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// BonusSpotsOnTrack places n spots on the centerline, evenly spread by
// waypoint index. The start line is left free.
func BonusSpotsOnTrack(m *track.MapInfo, n int, opts ...BonusOption) []*BonusSpot {
	points := m.Centerline()
	if n <= 0 || len(points) < 2 {
		return nil
	}
	ret := make([]*BonusSpot, 0, n)
	for i := range n {
		idx := 1 + i*(len(points)-1)/n
		ret = append(ret, NewBonusSpot(points[idx], opts...))
	}
	return ret
}

// Pick grants the bonus to by if the spot is active.
func (b *BonusSpot) Pick(by racer.Scorer) {
	if !b.Active() {
		return
	}
	b.cooldown = b.respawn
	b.picks++
	by.RecordScore(model.ScoreGiftPick, b.pos.X(), b.pos.Y())
}

func (b *BonusSpot) Act(dt float64) {
	if b.cooldown > 0 {
		b.cooldown -= dt
	}
}

func (b *BonusSpot) Active() bool    { return b.cooldown <= 0 }
func (b *BonusSpot) X() float64      { return b.pos.X() }
func (b *BonusSpot) Y() float64      { return b.pos.Y() }
func (b *BonusSpot) Radius() float64 { return b.radius }
func (b *BonusSpot) Picks() int      { return b.picks }
