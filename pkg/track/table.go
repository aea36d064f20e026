package track

import "github.com/mpapenbr/racesim/pkg/model"

// PositionTable maps table coordinates to lap positions.
type PositionTable interface {
	Get(x, y int) model.LapPosition
}

// LapPositionTable is a dense grid of lap positions in table units.
// Lookups outside the grid are clamped to the nearest border cell.
type LapPositionTable struct {
	width  int
	height int
	cells  []model.LapPosition
}

func NewLapPositionTable(width, height int) *LapPositionTable {
	return &LapPositionTable{
		width:  width,
		height: height,
		cells:  make([]model.LapPosition, width*height),
	}
}

func (t *LapPositionTable) Size() (width, height int) {
	return t.width, t.height
}

func (t *LapPositionTable) Set(x, y int, pos model.LapPosition) {
	t.cells[t.index(x, y)] = pos
}

func (t *LapPositionTable) Get(x, y int) model.LapPosition {
	return t.cells[t.index(x, y)]
}

func (t *LapPositionTable) index(x, y int) int {
	x = clampInt(x, 0, t.width-1)
	y = clampInt(y, 0, t.height-1)
	return y*t.width + x
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
