package projection

import (
	"math"

	"biodash/domain/dataset"
	"biodash/domain/render"
)

const (
	GaugeTitle    = "Number of Belly Button Washes"
	GaugeMaxWash  = 9
	GaugeBarColor = "rgba(0,0,0,1.0)"
	NeedleColor   = "rgba(225,15,25,1.00)"
	NeedleWidth   = 10
	NeedleLength  = 0.5
	GaugeWidth    = 600
	GaugeHeight   = 450
)

// NeedlePivot is where the needle is anchored, in gauge-relative coordinates.
var NeedlePivot = render.Point{X: 0.50, Y: 0.25}

// gaugeColors is the band gradient from 0 washes (pale) to 9 (green).
var gaugeColors = [GaugeMaxWash]string{
	"rgba(248,243,236,1.00)",
	"rgba(244,241,229,1.00)",
	"rgba(233,230,202,1.00)",
	"rgba(229,231,179,1.00)",
	"rgba(213,228,157,1.00)",
	"rgba(183,204,146,1.00)",
	"rgba(140,191,136,1.00)",
	"rgba(138,187,143,1.00)",
	"rgba(133,180,138,1.00)",
}

// GaugeSteps returns the nine bands, band k covering [k, k+1].
func GaugeSteps() []render.GaugeStep {
	steps := make([]render.GaugeStep, 0, GaugeMaxWash)
	for k, color := range gaugeColors {
		steps = append(steps, render.GaugeStep{
			Range: render.Range{Min: float64(k), Max: float64(k + 1)},
			Color: color,
		})
	}
	return steps
}

// RoundWash rounds half up, so 8.5 is 9 and -0.5 is 0.
func RoundWash(wfreq float64) int {
	return int(math.Floor(wfreq + 0.5))
}

// NeedleAngle maps a wash count linearly onto the gauge arc: 0 washes point
// left (pi), 9 washes point right (0). Counts outside [0,9] extrapolate.
func NeedleAngle(washCount int) float64 {
	return math.Pi - float64(washCount)*math.Pi/GaugeMaxWash
}

// NeedleFor builds the needle segment for a wash count.
func NeedleFor(washCount int) render.Needle {
	theta := NeedleAngle(washCount)
	return render.Needle{
		From: NeedlePivot,
		To: render.Point{
			X: NeedlePivot.X + NeedleLength*math.Cos(theta),
			Y: NeedlePivot.Y + NeedleLength*math.Sin(theta),
		},
		AngleDegrees: theta * 180 / math.Pi,
		Color:        NeedleColor,
		Width:        NeedleWidth,
	}
}

// Gauge reads the subject's wash frequency and builds the gauge spec. A
// missing or non-numeric wash frequency yields an invalid gauge with bands
// but no value or needle, rather than an error.
func Gauge(ds *dataset.Dataset, index int) (render.Gauge, error) {
	md, err := ds.MetadataAt(index)
	if err != nil {
		return render.Gauge{}, err
	}

	g := render.Gauge{
		Title:    GaugeTitle,
		Axis:     render.Range{Min: 0, Max: GaugeMaxWash},
		BarColor: GaugeBarColor,
		Steps:    GaugeSteps(),
		Width:    GaugeWidth,
		Height:   GaugeHeight,
		Margin:   render.Margin{Top: 0, Bottom: 0},
	}

	wfreq, ok := md.Float(dataset.WashFrequencyField)
	if !ok || math.IsInf(wfreq, 0) {
		return g, nil
	}

	g.WashCount = RoundWash(wfreq)
	g.Valid = true
	needle := NeedleFor(g.WashCount)
	g.Needle = &needle
	return g, nil
}
