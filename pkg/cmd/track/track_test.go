package track

import (
	"bytes"
	"testing"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racesim/pkg/model"
	"github.com/mpapenbr/racesim/pkg/track"
	"github.com/mpapenbr/racesim/testsupport/basedata"
)

func TestMaterialShares(t *testing.T) {
	shares := materialShares(track.Oval())
	require.Len(t, shares, 3)
	assert.Equal(t, model.MaterialRoad, shares[0].material)
	assert.Equal(t, model.MaterialSand, shares[1].material)
	assert.Equal(t, model.MaterialLava, shares[2].material)
	for _, s := range shares {
		assert.True(t, s.percent.IsPositive(), s.material.String())
	}
}

func TestPrintInfoText(t *testing.T) {
	m, err := loadMapInfo("")
	require.NoError(t, err)
	buf := bytes.Buffer{}
	require.NoError(t, printInfo(&buf, m, "text"))
	out := buf.String()
	assert.Contains(t, out, "Name:        oval\n")
	assert.Contains(t, out, "Laps:        3\n")
	assert.Contains(t, out, "Size:        40x25\n")
	assert.Contains(t, out, "Sections:    8\n")
	assert.Contains(t, out, "lava:")
}

func TestPrintInfoJSON(t *testing.T) {
	m, err := loadMapInfo(basedata.WriteSampleTrack(t))
	require.NoError(t, err)
	buf := bytes.Buffer{}
	require.NoError(t, printInfo(&buf, m, "json"))

	data, err := oj.ParseString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, []any{"testtrack"}, jp.MustParseString("$.name").Get(data))
	assert.Equal(t, []any{int64(2)}, jp.MustParseString("$.laps").Get(data))
	assert.Equal(t, []any{int64(6)}, jp.MustParseString("$.sections").Get(data))
	assert.Len(t, jp.MustParseString("$.materials.hole").Get(data), 1)
	assert.Len(t, jp.MustParseString("$.materials.sand").Get(data), 1)
}

func TestPrintInfoUnknownFormat(t *testing.T) {
	buf := bytes.Buffer{}
	assert.Error(t, printInfo(&buf, track.Oval(), "xml"))
}

func TestLoadMapInfoMissing(t *testing.T) {
	_, err := loadMapInfo("missing.json")
	assert.Error(t, err)
}
