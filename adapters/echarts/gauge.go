package echarts

import (
	"strconv"

	"biodash/domain/render"
)

// gaugeSeries mirrors the subset of the echarts gauge series we set.
type gaugeSeries struct {
	Type        string           `json:"type"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
	SplitNumber int              `json:"splitNumber"`
	StartAngle  int              `json:"startAngle"`
	EndAngle    int              `json:"endAngle"`
	Center      [2]string        `json:"center"`
	Radius      string           `json:"radius"`
	AxisLine    gaugeAxisLine    `json:"axisLine"`
	Progress    gaugeProgress    `json:"progress"`
	Pointer     show             `json:"pointer"`
	Detail      show             `json:"detail"`
	Data        []map[string]int `json:"data"`
}

type show struct {
	Show bool `json:"show"`
}

type gaugeAxisLine struct {
	LineStyle struct {
		Width int              `json:"width"`
		Color [][2]interface{} `json:"color"`
	} `json:"lineStyle"`
}

type gaugeProgress struct {
	Show      bool `json:"show"`
	Width     int  `json:"width"`
	ItemStyle struct {
		Color string `json:"color"`
	} `json:"itemStyle"`
}

type graphicLine struct {
	Type  string `json:"type"`
	Z     int    `json:"z"`
	Shape struct {
		X1 float64 `json:"x1"`
		Y1 float64 `json:"y1"`
		X2 float64 `json:"x2"`
		Y2 float64 `json:"y2"`
	} `json:"shape"`
	Style struct {
		Stroke    string `json:"stroke"`
		LineWidth int    `json:"lineWidth"`
	} `json:"style"`
}

type gaugeOptionDoc struct {
	Series  []gaugeSeries `json:"series"`
	Graphic []graphicLine `json:"graphic"`
}

// gaugeOption builds the setOption payload: half-circle bands centred on the
// needle pivot, the value bar, and the needle as a pixel-space line.
func gaugeOption(spec render.Gauge) gaugeOptionDoc {
	span := spec.Axis.Max - spec.Axis.Min
	series := gaugeSeries{
		Type:        "gauge",
		Min:         spec.Axis.Min,
		Max:         spec.Axis.Max,
		SplitNumber: len(spec.Steps),
		StartAngle:  180,
		EndAngle:    0,
		Radius:      "90%",
		Pointer:     show{Show: false},
		Detail:      show{Show: spec.Valid},
		Data:        []map[string]int{{"value": spec.WashCount}},
	}
	if spec.Needle != nil {
		series.Center = centre(spec.Needle.From)
	} else {
		series.Center = [2]string{"50%", "75%"}
	}
	series.AxisLine.LineStyle.Width = 60
	for _, step := range spec.Steps {
		stop := 1.0
		if span > 0 {
			stop = (step.Range.Max - spec.Axis.Min) / span
		}
		series.AxisLine.LineStyle.Color = append(series.AxisLine.LineStyle.Color, [2]interface{}{stop, step.Color})
	}
	series.Progress.Show = spec.Valid
	series.Progress.Width = 15
	series.Progress.ItemStyle.Color = spec.BarColor

	doc := gaugeOptionDoc{Series: []gaugeSeries{series}, Graphic: []graphicLine{}}
	if spec.Needle != nil {
		doc.Graphic = append(doc.Graphic, needleLine(*spec.Needle, spec.Width, spec.Height))
	}
	return doc
}

func centre(p render.Point) [2]string {
	return [2]string{percent(p.X), percent(1 - p.Y)}
}

func percent(f float64) string {
	return formatFloat(f*100) + "%"
}

// needleLine converts gauge-relative points (origin bottom left) to canvas
// pixels (origin top left).
func needleLine(n render.Needle, width, height int) graphicLine {
	var line graphicLine
	line.Type = "line"
	line.Z = 100
	line.Shape.X1 = n.From.X * float64(width)
	line.Shape.Y1 = (1 - n.From.Y) * float64(height)
	line.Shape.X2 = n.To.X * float64(width)
	line.Shape.Y2 = (1 - n.To.Y) * float64(height)
	line.Style.Stroke = n.Color
	line.Style.LineWidth = n.Width
	return line
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
