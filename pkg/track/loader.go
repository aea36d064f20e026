package track

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/racesim/pkg/model"
)

var (
	xName      = jp.MustParseString("$.name")
	xLaps      = jp.MustParseString("$.laps")
	xWidth     = jp.MustParseString("$.width")
	xHeight    = jp.MustParseString("$.height")
	xRoadWidth = jp.MustParseString("$.roadWidth")
	xSections  = jp.MustParseString("$.sections")
	xWaypoints = jp.MustParseString("$.waypoints[*]")
	xHazards   = jp.MustParseString("$.hazards[*]")
	xX         = jp.MustParseString("$.x")
	xY         = jp.MustParseString("$.y")
	xCenter    = jp.MustParseString("$.center")
	xRadius    = jp.MustParseString("$.radius")
	xMaterial  = jp.MustParseString("$.material")
)

// LoadFile reads a track definition from a json file.
func LoadFile(path string) (*model.TrackInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read track file: %w", err)
	}
	ret, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// Parse reads a track definition. Waypoints may be given as objects
// ({"x":1,"y":2}) or as pairs ([1,2]).
//
//nolint:funlen // by design
func Parse(data []byte) (*model.TrackInfo, error) {
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrack, err)
	}
	ret := &model.TrackInfo{}
	if name, ok := xName.First(doc).(string); ok {
		ret.Name = name
	}
	ints := []struct {
		x      jp.Expr
		target *int
		def    int
	}{
		{xLaps, &ret.Laps, 3},
		{xWidth, &ret.Width, 0},
		{xHeight, &ret.Height, 0},
		{xSections, &ret.Sections, 8},
	}
	for _, item := range ints {
		*item.target = item.def
		if v, ok := getFloat(item.x.First(doc)); ok {
			*item.target = int(v)
		}
	}
	if v, ok := getFloat(xRoadWidth.First(doc)); ok {
		ret.RoadWidth = v
	}

	for i, raw := range xWaypoints.Get(doc) {
		p, ok := getPoint(raw)
		if !ok {
			return nil, fmt.Errorf("%w: waypoint %d: %v", ErrInvalidTrack, i, raw)
		}
		ret.Waypoints = append(ret.Waypoints, p)
	}

	for i, raw := range xHazards.Get(doc) {
		center, ok := getPoint(xCenter.First(raw))
		if !ok {
			return nil, fmt.Errorf("%w: hazard %d: missing center", ErrInvalidTrack, i)
		}
		radius, _ := getFloat(xRadius.First(raw))
		name, _ := xMaterial.First(raw).(string)
		mat, err := model.ParseMaterial(name)
		if err != nil {
			return nil, fmt.Errorf("%w: hazard %d: %w", ErrInvalidTrack, i, err)
		}
		ret.Hazards = append(ret.Hazards, model.Hazard{
			Center: center, Radius: radius, Material: mat,
		})
	}
	if err := validate(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func getPoint(raw any) (model.Point, bool) {
	switch val := raw.(type) {
	case []any:
		if len(val) != 2 {
			return model.Point{}, false
		}
		x, okX := getFloat(val[0])
		y, okY := getFloat(val[1])
		return model.Point{X: x, Y: y}, okX && okY
	case map[string]any:
		x, okX := getFloat(xX.First(val))
		y, okY := getFloat(xY.First(val))
		return model.Point{X: x, Y: y}, okX && okY
	default:
		return model.Point{}, false
	}
}

func getFloat(raw any) (float64, bool) {
	switch val := raw.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
