package ports

import (
	"io"

	"biodash/domain/render"
)

// ChartRenderer draws render specs. Renderers that cannot draw a kind return
// core.ErrUnsupportedChart.
type ChartRenderer interface {
	RenderBar(w io.Writer, spec render.BarChart) error
	RenderGauge(w io.Writer, spec render.Gauge) error
	RenderScatter(w io.Writer, spec render.Scatter) error
	// ContentType is the MIME type of everything the renderer writes.
	ContentType() string
}

// DashboardRenderer draws the three charts of a dashboard as one document.
type DashboardRenderer interface {
	ChartRenderer
	RenderDashboard(w io.Writer, dash *render.Dashboard) error
}
