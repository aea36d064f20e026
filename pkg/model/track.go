package model

// TrackInfo describes a track as stored in track files.
// Coordinates and sizes are table units (pixels), see UnitForPixel.
//
//nolint:tagliatelle //file format
type TrackInfo struct {
	Name      string   `json:"name"`
	Laps      int      `json:"laps"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	RoadWidth float64  `json:"roadWidth"`
	Sections  int      `json:"sections"`
	Waypoints []Point  `json:"waypoints"`
	Hazards   []Hazard `json:"hazards"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Hazard is a circular zone with a ground material other than road.
type Hazard struct {
	Center   Point    `json:"center"`
	Radius   float64  `json:"radius"`
	Material Material `json:"material"`
}
