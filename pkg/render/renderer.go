package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Layers drawn by the vehicle renderer, lower layers first.
const (
	LayerBody = iota
	LayerHUD
)

// Surface receives character cells. tcell screens satisfy it.
type Surface interface {
	Size() (width, height int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// Canvas maps world coordinates onto a surface.
type Canvas struct {
	Surface Surface
	ScaleX  float64 // cells per world unit
	ScaleY  float64
	OffsetX float64 // world coordinate of the top left cell
	OffsetY float64
}

// ToCell returns the cell of a world position and whether it is visible.
func (c Canvas) ToCell(x, y float64) (cx, cy int, visible bool) {
	cx = int(math.Floor((x - c.OffsetX) * c.ScaleX))
	cy = int(math.Floor((y - c.OffsetY) * c.ScaleY))
	w, h := c.Surface.Size()
	return cx, cy, cx >= 0 && cy >= 0 && cx < w && cy < h
}

type Body interface {
	X() float64
	Y() float64
	Angle() float64
}

type HealthSource interface {
	Fraction() float64
}

// VehicleRenderer draws a vehicle as heading arrow with a health bar above.
type VehicleRenderer struct {
	body   Body
	health HealthSource
	style  tcell.Style
}

func NewVehicleRenderer(body Body, health HealthSource) *VehicleRenderer {
	return &VehicleRenderer{
		body:   body,
		health: health,
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	}
}

func (r *VehicleRenderer) SetStyle(style tcell.Style) {
	r.style = style
}

// heading arrows for screen coordinates (y grows downwards)
var arrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// health bar levels, empty to full
var bars = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Draw draws the given layer and reports false if the vehicle is off-screen.
func (r *VehicleRenderer) Draw(c Canvas, layer int) bool {
	cx, cy, visible := c.ToCell(r.body.X(), r.body.Y())
	if !visible {
		return false
	}
	switch layer {
	case LayerBody:
		c.Surface.SetContent(cx, cy, HeadingArrow(r.body.Angle()), nil, r.style)
	case LayerHUD:
		if cy == 0 {
			return false
		}
		frac := math.Max(0, math.Min(1, r.health.Fraction()))
		level := int(math.Ceil(frac * float64(len(bars)-1)))
		c.Surface.SetContent(cx, cy-1, bars[level], nil,
			tcell.StyleDefault.Foreground(healthColor(frac)))
	}
	return true
}

func HeadingArrow(angle float64) rune {
	idx := int(math.Round(angle/(math.Pi/4))) % len(arrows)
	if idx < 0 {
		idx += len(arrows)
	}
	return arrows[idx]
}

func healthColor(frac float64) tcell.Color {
	switch {
	case frac > 0.5:
		return tcell.ColorGreen
	case frac > 0.25:
		return tcell.ColorYellow
	default:
		return tcell.ColorRed
	}
}
