// Package pngchart draws bar and scatter specs as static PNG images with
// go-chart. The gauge has no go-chart equivalent and is not supported.
package pngchart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"biodash/domain/core"
	"biodash/domain/render"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned for specs without a single non-zero value;
// go-chart cannot scale an empty range.
var ErrNothingToDraw = errors.New("chart has no data to draw")

var barColor = drawing.Color{R: 31, G: 119, B: 180, A: 255}

// Renderer implements ports.ChartRenderer.
type Renderer struct {
	Width  int
	Height int
}

// New creates a renderer with a 900x500 canvas.
func New() *Renderer {
	return &Renderer{Width: 900, Height: 500}
}

func (r *Renderer) ContentType() string { return "image/png" }

// RenderBar draws the bars top-ranked first, left to right.
func (r *Renderer) RenderBar(w io.Writer, spec render.BarChart) error {
	n := spec.Len()
	bars := make([]chart.Value, 0, n)
	nonZero := false
	for i := n - 1; i >= 0; i-- {
		if spec.Values[i] != 0 {
			nonZero = true
		}
		bars = append(bars, chart.Value{
			Label: render.DisplayCategory(spec.Categories[i]),
			Value: spec.Values[i],
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}
	if !nonZero {
		return ErrNothingToDraw
	}

	bc := chart.BarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   r.Width / (2 * render.BarSlots),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Bars:       bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// RenderGauge is not supported.
func (r *Renderer) RenderGauge(w io.Writer, spec render.Gauge) error {
	return fmt.Errorf("%w: gauge as png", core.ErrUnsupportedChart)
}

// RenderScatter draws markers only, each dot sized and colored by its marker.
func (r *Renderer) RenderScatter(w io.Writer, spec render.Scatter) error {
	if len(spec.Markers) == 0 {
		return ErrNothingToDraw
	}

	xs := make([]float64, len(spec.Markers))
	ys := make([]float64, len(spec.Markers))
	for i, m := range spec.Markers {
		xs[i] = float64(m.X)
		ys[i] = m.Y
	}

	markers := spec.Markers
	series := chart.ContinuousSeries{
		Name: "taxa",
		Style: chart.Style{
			StrokeWidth: chart.Disabled,
			DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
				return markers[index].Size / 2
			},
			DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
				return HSLToColor(markers[index].Hue, 1, 0.5)
			},
		},
		XValues: xs,
		YValues: ys,
	}

	ch := chart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 20, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "OTU ID", Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Range: paddedRange(ys)},
		Series:     []chart.Series{series},
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render scatter chart: %w", err)
	}
	return nil
}

// paddedRange widens the data extent so single points and edge bubbles fit.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	pad := (hi - lo) * 0.05
	if pad < 1 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
