package track

import (
	"math"

	"github.com/mpapenbr/racesim/pkg/model"
)

// OvalInfo returns the definition of the built-in oval track.
// The start line is in the middle of the bottom straight, racers drive
// counter-clockwise on screen.
func OvalInfo() *model.TrackInfo {
	const (
		radius = 150.0
		arcs   = 8
	)
	points := []model.Point{{X: 400, Y: 400}, {X: 600, Y: 400}}
	arc := func(cx, cy, from float64) {
		for k := 1; k <= arcs; k++ {
			a := (from - 180*float64(k)/arcs) * math.Pi / 180
			points = append(points, model.Point{
				X: cx + radius*math.Cos(a),
				Y: cy + radius*math.Sin(a),
			})
		}
	}
	arc(600, 250, 90)
	points = append(points, model.Point{X: 200, Y: 100})
	arc(200, 250, -90)

	return &model.TrackInfo{
		Name:      "oval",
		Laps:      3,
		Width:     800,
		Height:    500,
		RoadWidth: 80,
		Sections:  8,
		Waypoints: points,
		Hazards: []model.Hazard{
			{Center: model.Point{X: 400, Y: 250}, Radius: 40, Material: model.MaterialLava},
		},
	}
}

// Oval builds the built-in oval track.
func Oval() *MapInfo {
	m, err := Build(OvalInfo())
	if err != nil {
		panic(err)
	}
	return m
}
