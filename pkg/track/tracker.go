package track

import "github.com/mpapenbr/racesim/pkg/model"

// pixels per world unit
const pfu = 1 / model.UnitForPixel

// LapPositionAt returns the lap position at the given world coordinates.
// Coordinates are converted to table units and truncated.
func LapPositionAt(table PositionTable, x, y float64) model.LapPosition {
	return table.Get(int(pfu*x), int(pfu*y))
}
