package echarts

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal/projection"
	"biodash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "gender", "F", "wfreq", 8.6),
		},
		Samples: []dataset.SampleRecord{{
			ID:           "940",
			OTUIDs:       []int{1, 2, 3},
			OTULabels:    []string{"Bacteria;A", "Bacteria;B", "Bacteria;C"},
			SampleValues: []float64{10, 20, 30},
		}},
	}
}

func dashboard(t *testing.T) *render.Dashboard {
	t.Helper()
	dash, err := projection.Dispatch(fixture(), 0)
	require.NoError(t, err)
	return dash
}

func TestRendererImplementsPort(t *testing.T) {
	var r ports.DashboardRenderer = New()
	assert.Equal(t, "text/html; charset=utf-8", r.ContentType())
}

func TestRenderBar(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().RenderBar(&buf, dashboard(t).Bar))

	out := buf.String()
	assert.Contains(t, out, "Most Prominent Bacteria")
	assert.Contains(t, out, "OTU-3")
	assert.Contains(t, out, "Bacteria;C")
	assert.NotContains(t, out, "__placeholder_")
	assert.Contains(t, out, "goecharts_biodash_bar")
}

func TestRenderGaugeDrawsNeedle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(WithIDPrefix("s0")).RenderGauge(&buf, dashboard(t).Gauge))

	out := buf.String()
	assert.Contains(t, out, "Number of Belly Button Washes")
	assert.Contains(t, out, "goecharts_s0_gauge.setOption(")
	assert.Contains(t, out, "rgba(225,15,25,1.00)")
	assert.Contains(t, out, "rgba(133,180,138,1.00)")
}

func TestGaugeOptionNeedlePixels(t *testing.T) {
	spec := dashboard(t).Gauge
	doc := gaugeOption(spec)

	require.Len(t, doc.Graphic, 1)
	line := doc.Graphic[0].Shape
	// 9 washes points straight right from the pivot at (300, 337.5)
	assert.InDelta(t, 300, line.X1, 1e-9)
	assert.InDelta(t, 337.5, line.Y1, 1e-9)
	assert.InDelta(t, 600, line.X2, 1e-6)
	assert.InDelta(t, 337.5, line.Y2, 1e-6)

	assert.Equal(t, [2]string{"50%", "75%"}, doc.Series[0].Center)
	assert.Len(t, doc.Series[0].AxisLine.LineStyle.Color, 9)
	assert.Equal(t, 1.0, doc.Series[0].AxisLine.LineStyle.Color[8][0])
}

func TestGaugeOptionWithoutWashFrequency(t *testing.T) {
	ds := fixture()
	ds.Metadata[0] = dataset.NewMetadataRecord("id", 940, "wfreq", nil)
	spec, err := projection.Gauge(ds, 0)
	require.NoError(t, err)

	doc := gaugeOption(spec)
	assert.Empty(t, doc.Graphic)
	assert.False(t, doc.Series[0].Detail.Show)
	assert.False(t, doc.Series[0].Progress.Show)

	_, err = json.Marshal(doc)
	assert.NoError(t, err)
}

func TestRenderScatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().RenderScatter(&buf, dashboard(t).Scatter))

	out := buf.String()
	assert.Contains(t, out, "hsla(0.075,100%,50%,1.0)")
	assert.Contains(t, out, "symbolSize: function (v)")
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New().RenderDashboard(&buf, dashboard(t)))

	out := buf.String()
	assert.Contains(t, out, "goecharts_biodash_bar")
	assert.Contains(t, out, "goecharts_biodash_gauge")
	assert.Contains(t, out, "goecharts_biodash_scatter")

	assert.Contains(t, out, `<ul id="sample-metadata">`)
	assert.Contains(t, out, "<li>gender:F</li>")
	assert.Contains(t, out, "<li>wfreq:8.6</li>")
	assert.Less(t, strings.Index(out, "sample-metadata"), strings.Index(out, "goecharts_biodash_bar"))

	assert.Error(t, New().RenderDashboard(&buf, nil))
}

func TestRenderDashboardEscapesDemographics(t *testing.T) {
	dash := dashboard(t)
	dash.Demographics.Lines = []string{"location:<script>"}

	var buf bytes.Buffer
	require.NoError(t, New().RenderDashboard(&buf, dash))
	assert.Contains(t, buf.String(), "<li>location:&lt;script&gt;</li>")
}
