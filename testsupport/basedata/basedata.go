package basedata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mpapenbr/racesim/pkg/model"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

// SampleTrackJSON is a rectangular two lap track with a sand trap in the
// infield and a hole next to the back straight.
const SampleTrackJSON = `{
	"name": "testtrack",
	"laps": 2,
	"width": 600,
	"height": 400,
	"roadWidth": 80,
	"sections": 6,
	"waypoints": [
		[300, 320], [500, 320], [530, 300], [530, 100], [500, 80],
		{"x": 100, "y": 80}, [70, 100], [70, 300], [100, 320]
	],
	"hazards": [
		{"center": [300, 200], "radius": 50, "material": "sand"},
		{"center": [300, 20], "radius": 15, "material": "hole"}
	]
}`

func SampleTrack() *model.TrackInfo {
	return &model.TrackInfo{
		Name:      "testtrack",
		Laps:      2,
		Width:     600,
		Height:    400,
		RoadWidth: 80,
		Sections:  6,
		Waypoints: []model.Point{
			{X: 300, Y: 320}, {X: 500, Y: 320}, {X: 530, Y: 300}, {X: 530, Y: 100},
			{X: 500, Y: 80}, {X: 100, Y: 80}, {X: 70, Y: 100}, {X: 70, Y: 300},
			{X: 100, Y: 320},
		},
		Hazards: []model.Hazard{
			{Center: model.Point{X: 300, Y: 200}, Radius: 50, Material: model.MaterialSand},
			{Center: model.Point{X: 300, Y: 20}, Radius: 15, Material: model.MaterialHole},
		},
	}
}

// WriteSampleTrack writes SampleTrackJSON into a temp dir and returns the path.
func WriteSampleTrack(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "testtrack.json")
	if err := os.WriteFile(path, []byte(SampleTrackJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
