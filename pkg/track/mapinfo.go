package track

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/mpapenbr/racesim/pkg/model"
)

// MapInfo is the runtime view of a track.
// The lap position table is read-only once built and may be shared by all
// racers of a world.
type MapInfo struct {
	Name      string
	Table     PositionTable
	TotalLaps int

	width      int // table units
	height     int
	roadWidth  float64 // world units
	materials  []model.Material
	centerline []mgl64.Vec2 // world units, closed loop starting at the start line
	length     float64      // world units
	sections   int
}

type MapInfoOption func(m *MapInfo)

func WithCenterline(points []mgl64.Vec2) MapInfoOption {
	return func(m *MapInfo) {
		m.centerline = points
		m.length = loopLength(points)
	}
}

func WithMaterials(width, height int, materials []model.Material) MapInfoOption {
	return func(m *MapInfo) {
		m.width = width
		m.height = height
		m.materials = materials
	}
}

func NewMapInfo(name string, table PositionTable, totalLaps int, opts ...MapInfoOption) *MapInfo {
	ret := &MapInfo{Name: name, Table: table, TotalLaps: totalLaps}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// MaterialAt returns the ground material at world coordinates.
// Positions outside the track area are holes.
func (m *MapInfo) MaterialAt(x, y float64) model.Material {
	if m.materials == nil {
		return model.MaterialRoad
	}
	tx, ty := int(pfu*x), int(pfu*y)
	if x < 0 || y < 0 || tx >= m.width || ty >= m.height {
		return model.MaterialHole
	}
	return m.materials[ty*m.width+tx]
}

// Size returns the track size in world units.
func (m *MapInfo) Size() (width, height float64) {
	return float64(m.width) * model.UnitForPixel, float64(m.height) * model.UnitForPixel
}

func (m *MapInfo) Centerline() []mgl64.Vec2 {
	return m.centerline
}

// Length is the length of one lap in world units.
func (m *MapInfo) Length() float64 {
	return m.length
}

func (m *MapInfo) Sections() int {
	return m.sections
}

func (m *MapInfo) RoadWidth() float64 {
	return m.roadWidth
}

// MaterialCounts returns the number of table cells per material.
func (m *MapInfo) MaterialCounts() map[model.Material]int {
	return lo.CountValues(m.materials)
}

// StartPosition returns position and heading of a grid slot.
// Slots are placed in pairs behind the start line, so racers begin in the
// last section of the track.
func (m *MapInfo) StartPosition(slot int) (pos mgl64.Vec2, angle float64) {
	if len(m.centerline) < 2 {
		return mgl64.Vec2{}, 0
	}
	start := m.centerline[0]
	dir := m.centerline[1].Sub(start).Normalize()
	normal := mgl64.Vec2{-dir.Y(), dir.X()}

	const (
		firstRow   = 1.0
		rowSpacing = 1.2
	)
	row := float64(slot / 2)
	side := 1.0
	if slot%2 == 1 {
		side = -1.0
	}
	back := firstRow + row*rowSpacing
	lateral := side * m.roadWidth / 4
	pos = start.Sub(dir.Mul(back)).Add(normal.Mul(lateral))
	return pos, math.Atan2(dir.Y(), dir.X())
}

func loopLength(points []mgl64.Vec2) float64 {
	total := 0.0
	for i := range points {
		total += points[(i+1)%len(points)].Sub(points[i]).Len()
	}
	return total
}
