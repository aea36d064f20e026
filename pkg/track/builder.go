package track

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mpapenbr/racesim/pkg/model"
)

var ErrInvalidTrack = errors.New("invalid track")

// minSections is needed to keep section 1 as buffer between the start
// section and the rest of the lap.
const minSections = 3

//nolint:cyclop // validation
func validate(info *model.TrackInfo) error {
	switch {
	case info.Width <= 0 || info.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidTrack, info.Width, info.Height)
	case len(info.Waypoints) < 3:
		return fmt.Errorf("%w: need at least 3 waypoints, got %d",
			ErrInvalidTrack, len(info.Waypoints))
	case info.Sections < minSections:
		return fmt.Errorf("%w: need at least %d sections, got %d",
			ErrInvalidTrack, minSections, info.Sections)
	case info.Laps < 1:
		return fmt.Errorf("%w: laps must be positive, got %d", ErrInvalidTrack, info.Laps)
	case info.RoadWidth <= 0:
		return fmt.Errorf("%w: road width must be positive", ErrInvalidTrack)
	}
	return nil
}

type segment struct {
	from   mgl64.Vec2
	dir    mgl64.Vec2 // unit vector
	length float64
	offset float64 // distance from start line to from
}

type projection struct {
	distance float64 // distance of the point to the centerline
	along    float64 // distance from start line along the centerline
}

func buildSegments(points []mgl64.Vec2) (segs []segment, total float64) {
	segs = make([]segment, 0, len(points))
	for i := range points {
		from := points[i]
		to := points[(i+1)%len(points)]
		d := to.Sub(from)
		l := d.Len()
		if l == 0 {
			continue
		}
		segs = append(segs, segment{from: from, dir: d.Mul(1 / l), length: l, offset: total})
		total += l
	}
	return segs, total
}

func project(segs []segment, p mgl64.Vec2) projection {
	best := projection{distance: math.MaxFloat64}
	for i := range segs {
		s := &segs[i]
		t := p.Sub(s.from).Dot(s.dir)
		t = math.Max(0, math.Min(s.length, t))
		dist := p.Sub(s.from.Add(s.dir.Mul(t))).Len()
		if dist < best.distance {
			best = projection{distance: dist, along: s.offset + t}
		}
	}
	return best
}

// Build computes the lap position table and the ground materials of a track.
// Every cell gets the lap position of the nearest centerline point. Section
// ids split the lap into equally long parts, section 0 starts at the first
// waypoint.
func Build(info *model.TrackInfo) (*MapInfo, error) {
	if err := validate(info); err != nil {
		return nil, err
	}
	points := make([]mgl64.Vec2, len(info.Waypoints))
	for i, wp := range info.Waypoints {
		points[i] = mgl64.Vec2{wp.X, wp.Y}
	}
	segs, total := buildSegments(points)
	if len(segs) < 3 {
		return nil, fmt.Errorf("%w: waypoints collapse to %d segments",
			ErrInvalidTrack, len(segs))
	}
	sectionLength := total / float64(info.Sections)
	halfRoad := info.RoadWidth / 2

	table := NewLapPositionTable(info.Width, info.Height)
	materials := make([]model.Material, info.Width*info.Height)
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			cell := mgl64.Vec2{float64(x) + 0.5, float64(y) + 0.5}
			proj := project(segs, cell)
			section := min(int(proj.along/sectionLength), info.Sections-1)
			table.Set(x, y, model.LapPosition{
				SectionID:   section,
				LapDistance: proj.along * model.UnitForPixel,
			})
			mat := model.MaterialRoad
			if proj.distance > halfRoad {
				mat = model.MaterialSand
			}
			for _, h := range info.Hazards {
				if cell.Sub(mgl64.Vec2{h.Center.X, h.Center.Y}).Len() <= h.Radius {
					mat = h.Material
				}
			}
			materials[y*info.Width+x] = mat
		}
	}

	world := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		world[i] = p.Mul(model.UnitForPixel)
	}
	ret := NewMapInfo(info.Name, table, info.Laps,
		WithCenterline(world),
		WithMaterials(info.Width, info.Height, materials))
	ret.roadWidth = info.RoadWidth * model.UnitForPixel
	ret.sections = info.Sections
	return ret, nil
}
