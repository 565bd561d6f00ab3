package pngchart

import (
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// HSLToColor converts hue in degrees (wrapped into [0,360)), saturation and
// lightness in [0,1] to an opaque color.
func HSLToColor(hue, saturation, lightness float64) drawing.Color {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*lightness-1)) * saturation
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := lightness - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return drawing.Color{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
