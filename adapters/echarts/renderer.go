// Package echarts draws render specs as interactive HTML charts with
// go-echarts.
package echarts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"biodash/domain/render"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const contentType = "text/html; charset=utf-8"

// Default chart sizes for bar and scatter; the gauge carries its own.
const (
	defaultWidth  = "900px"
	defaultHeight = "500px"
)

// Renderer implements ports.DashboardRenderer.
type Renderer struct {
	assetsHost string
	idPrefix   string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAssetsHost serves echarts.min.js from host instead of the go-echarts CDN.
func WithAssetsHost(host string) Option {
	return func(r *Renderer) { r.assetsHost = host }
}

// WithIDPrefix namespaces chart element ids, for pages embedding several dashboards.
func WithIDPrefix(prefix string) Option {
	return func(r *Renderer) { r.idPrefix = prefix }
}

// New creates a renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{idPrefix: "biodash"}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *Renderer) ContentType() string { return contentType }

func (r *Renderer) chartID(kind render.Kind) string {
	return r.idPrefix + "_" + string(kind)
}

func (r *Renderer) init(kind render.Kind, width, height string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  string(kind),
		Width:      width,
		Height:     height,
		ChartID:    r.chartID(kind),
		AssetsHost: r.assetsHost,
	}
}

// RenderBar draws a horizontal bar chart. Padded slots keep their row but
// show no axis label.
func (r *Renderer) RenderBar(w io.Writer, spec render.BarChart) error {
	return r.bar(spec).Render(w)
}

func (r *Renderer) bar(spec render.BarChart) *charts.Bar {
	categories := make([]string, spec.Len())
	data := make([]opts.BarData, spec.Len())
	for i := range spec.Values {
		categories[i] = render.DisplayCategory(spec.Categories[i])
		data[i] = opts.BarData{Name: spec.Labels[i], Value: spec.Values[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.init(render.KindBar, defaultWidth, defaultHeight)),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithLegendOpts(opts.Legend{Show: false}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Formatter: opts.FuncOpts(`function (p) { return p.data.name; }`),
		}),
	)
	bar.SetXAxis(categories).AddSeries("abundance", data)
	if spec.Orientation == render.OrientationHorizontal {
		bar.XYReversal()
	}
	return bar
}

// RenderGauge draws the banded wash gauge with the needle as an overlay line.
func (r *Renderer) RenderGauge(w io.Writer, spec render.Gauge) error {
	gauge, err := r.gauge(spec)
	if err != nil {
		return err
	}
	return gauge.Render(w)
}

func (r *Renderer) gauge(spec render.Gauge) (*charts.Gauge, error) {
	id := r.chartID(render.KindGauge)
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		charts.WithInitializationOpts(r.init(render.KindGauge,
			fmt.Sprintf("%dpx", spec.Width), fmt.Sprintf("%dpx", spec.Height))),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
	)
	gauge.AddSeries("washes", []opts.GaugeData{{Name: "", Value: spec.WashCount}})

	option, err := json.Marshal(gaugeOption(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to encode gauge option: %w", err)
	}
	gauge.AddJSFuncs(fmt.Sprintf("goecharts_%s.setOption(%s);", id, option))
	return gauge, nil
}

// RenderScatter draws one bubble per taxon, sized and colored per marker.
func (r *Renderer) RenderScatter(w io.Writer, spec render.Scatter) error {
	return r.scatter(spec).Render(w)
}

func (r *Renderer) scatter(spec render.Scatter) *charts.Scatter {
	id := r.chartID(render.KindScatter)
	data := make([]opts.ScatterData, len(spec.Markers))
	for i, m := range spec.Markers {
		data[i] = opts.ScatterData{
			Name:       m.Text,
			Value:      []interface{}{m.X, m.Y, m.Size, m.Color},
			SymbolSize: int(m.Size + 0.5),
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(r.init(render.KindScatter, defaultWidth, defaultHeight)),
		charts.WithLegendOpts(opts.Legend{Show: false}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      true,
			Formatter: opts.FuncOpts(`function (p) { return p.data.name; }`),
		}),
	)
	scatter.AddSeries("taxa", data)
	// symbol sizes are fractional and colors per point, so both come from the value tuple
	scatter.AddJSFuncs(fmt.Sprintf(`goecharts_%s.setOption({series: [{
  symbolSize: function (v) { return v[2]; },
  itemStyle: { color: function (p) { return p.value[3]; }, opacity: 1 }
}]});`, id))
	return scatter
}

// RenderDashboard puts the demographics list and the three charts on one page
// in drawing order.
func (r *Renderer) RenderDashboard(w io.Writer, dash *render.Dashboard) error {
	if dash == nil {
		return fmt.Errorf("no dashboard to render")
	}
	gauge, err := r.gauge(dash.Gauge)
	if err != nil {
		return err
	}

	page := components.NewPage()
	if r.assetsHost != "" {
		page.AssetsHost = r.assetsHost
	}
	page.PageTitle = "Subject " + dash.Subject
	page.AddCharts(r.bar(dash.Bar), gauge, r.scatter(dash.Scatter))

	var doc bytes.Buffer
	if err := page.Render(&doc); err != nil {
		return err
	}
	var panel bytes.Buffer
	if err := demographicsPanel.Execute(&panel, dash.Demographics); err != nil {
		return err
	}

	// the demographics panel opens the body, ahead of the charts
	out := doc.Bytes()
	at := bytes.Index(out, []byte("<body>"))
	if at < 0 {
		at = 0
	} else {
		at += len("<body>")
	}
	if _, err := w.Write(out[:at]); err != nil {
		return err
	}
	if _, err := w.Write(panel.Bytes()); err != nil {
		return err
	}
	_, err = w.Write(out[at:])
	return err
}

var demographicsPanel = template.Must(template.New("demographics").Parse(`
<section class="demographics">
  <h2>Demographic Info</h2>
  <ul id="sample-metadata">
    {{- range .Lines}}
    <li>{{.}}</li>
    {{- end}}
  </ul>
</section>
`))
