package projection

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"biodash/adapters/jsondoc"
	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/domain/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builds a two-subject dataset: subject 0 has twelve taxa and a full
// metadata record, subject 1 has three taxa and a short record.
func fixture() *dataset.Dataset {
	ids := make([]int, 12)
	labels := make([]string, 12)
	values := make([]float64, 12)
	for i := range ids {
		ids[i] = 1000 + i
		labels[i] = "Bacteria;taxon" + string(rune('A'+i))
		values[i] = float64(200 - 10*i)
	}

	return &dataset.Dataset{
		Names: []string{"940", "941"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord(
				"id", 940,
				"ethnicity", "Caucasian",
				"gender", "F",
				"age", 24.0,
				"location", "Beaufort/NC",
				"bbtype", "I",
				"wfreq", 8.6,
			),
			dataset.NewMetadataRecord(
				"id", 941,
				"gender", "M",
				"wfreq", "n/a",
			),
		},
		Samples: []dataset.SampleRecord{
			{ID: "940", OTUIDs: ids, OTULabels: labels, SampleValues: values},
			{ID: "941", OTUIDs: []int{1, 2, 3}, OTULabels: []string{"a", "b", "c"}, SampleValues: []float64{10, 20, 30}},
		},
	}
}

func TestDemographics(t *testing.T) {
	ds := fixture()

	got, err := Demographics(ds, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ethnicity:Caucasian",
		"gender:F",
		"age:24",
		"location:Beaufort/NC",
		"bbtype:I",
	}, got.Lines)
	for _, line := range got.Lines {
		assert.NotContains(t, line, "id:")
	}

	short, err := Demographics(ds, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"gender:M", "wfreq:n/a"}, short.Lines)
}

func TestDemographicsFromSamplesDocument(t *testing.T) {
	f, err := os.Open(filepath.Join("..", "..", "static", "data", "samples.json"))
	require.NoError(t, err)
	defer f.Close()

	ds, err := jsondoc.Decode(f)
	require.NoError(t, err)

	got, err := Demographics(ds, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ethnicity:Caucasian",
		"gender:F",
		"age:24",
		"location:Beaufort/NC",
		"bbtype:I",
	}, got.Lines)

	third, err := Demographics(ds, 2)
	require.NoError(t, err)
	assert.Contains(t, third.Lines, "age:34")

	// subject 941 has "wfreq": null, which is missing rather than zero washes
	g, err := Gauge(ds, 1)
	require.NoError(t, err)
	assert.False(t, g.Valid)
	assert.Nil(t, g.Needle)
}

func TestDemographicsNeverExceedsFiveLines(t *testing.T) {
	for i := 0; i < fixture().Len(); i++ {
		got, err := Demographics(fixture(), i)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got.Lines), 5)
	}
}

func TestBarChartShape(t *testing.T) {
	ds := fixture()
	for i := 0; i < ds.Len(); i++ {
		bar, err := BarChart(ds, i)
		require.NoError(t, err)

		assert.Equal(t, render.BarTitle, bar.Title)
		assert.Equal(t, render.OrientationHorizontal, bar.Orientation)
		assert.Len(t, bar.Values, render.BarSlots)
		assert.Len(t, bar.Categories, render.BarSlots)
		assert.Len(t, bar.Labels, render.BarSlots)
		assert.Len(t, bar.Placeholder, render.BarSlots)
	}
}

func TestBarChartTakesFirstTenReversed(t *testing.T) {
	bar, err := BarChart(fixture(), 0)
	require.NoError(t, err)

	// The tenth taxon is drawn first (bottom), the first taxon last (top).
	assert.Equal(t, "OTU-1009", bar.Categories[0])
	assert.Equal(t, 110.0, bar.Values[0])
	assert.Equal(t, "OTU-1000", bar.Categories[9])
	assert.Equal(t, 200.0, bar.Values[9])
	assert.Equal(t, "Bacteria;taxonA", bar.Labels[9])
	assert.NotContains(t, bar.Categories, "OTU-1010", "taxa past the tenth are dropped")
	for _, p := range bar.Placeholder {
		assert.False(t, p)
	}
}

func TestBarChartPadsShortSamples(t *testing.T) {
	bar, err := BarChart(fixture(), 1)
	require.NoError(t, err)

	// Seven pads were appended before reversal, so they lead the output.
	for i := 0; i < 7; i++ {
		assert.True(t, bar.Placeholder[i], "slot %d", i)
		assert.Equal(t, 0.0, bar.Values[i])
		assert.Equal(t, "", bar.Labels[i])
		assert.True(t, render.IsPlaceholderCategory(bar.Categories[i]))
	}

	assert.Equal(t, []string{"OTU-3", "OTU-2", "OTU-1"}, bar.Categories[7:])
	assert.Equal(t, []float64{30, 20, 10}, bar.Values[7:])
	assert.Equal(t, []string{"c", "b", "a"}, bar.Labels[7:])

	seen := map[string]bool{}
	for _, c := range bar.Categories {
		assert.False(t, seen[c], "category %q repeated", c)
		seen[c] = true
	}
}

func TestBarChartThreeTaxaExample(t *testing.T) {
	ds := &dataset.Dataset{
		Names:    []string{"x"},
		Metadata: []dataset.MetadataRecord{dataset.NewMetadataRecord("id", 1)},
		Samples: []dataset.SampleRecord{{
			OTUIDs:       []int{1, 2, 3},
			OTULabels:    []string{"l1", "l2", "l3"},
			SampleValues: []float64{10, 20, 30},
		}},
	}

	bar, err := BarChart(ds, 0)
	require.NoError(t, err)

	zeros := 0
	first := ""
	for i, v := range bar.Values {
		if bar.Placeholder[i] {
			zeros++
			assert.Zero(t, v)
			continue
		}
		if first == "" {
			first = bar.Categories[i]
		}
	}
	assert.Equal(t, 7, zeros)
	assert.Equal(t, "OTU-3", first)
}

func TestRoundWash(t *testing.T) {
	assert.Equal(t, 9, RoundWash(8.6))
	assert.Equal(t, 9, RoundWash(8.5))
	assert.Equal(t, 2, RoundWash(2.4))
	assert.Equal(t, 0, RoundWash(-0.5))
	assert.Equal(t, 0, RoundWash(0))
}

func TestNeedleDirection(t *testing.T) {
	zero := NeedleFor(0)
	assert.InDelta(t, -0.5, zero.To.X-zero.From.X, 1e-9)
	assert.InDelta(t, 0, zero.To.Y-zero.From.Y, 1e-9)
	assert.InDelta(t, 180, zero.AngleDegrees, 1e-9)

	nine := NeedleFor(9)
	assert.InDelta(t, 0.5, nine.To.X-nine.From.X, 1e-9)
	assert.InDelta(t, 0, nine.To.Y-nine.From.Y, 1e-9)
	assert.InDelta(t, 0, nine.AngleDegrees, 1e-9)

	mid := NeedleFor(4)
	assert.Greater(t, mid.To.Y, NeedlePivot.Y, "mid counts point up")

	// Out of range counts extrapolate below the arc instead of failing.
	past := NeedleFor(12)
	assert.Less(t, past.To.Y, NeedlePivot.Y)
}

func TestGaugeEndToEnd(t *testing.T) {
	g, err := Gauge(fixture(), 0)
	require.NoError(t, err)

	assert.True(t, g.Valid)
	assert.Equal(t, 9, g.WashCount)
	require.NotNil(t, g.Needle)
	assert.Equal(t, render.Point{X: 0.5, Y: 0.25}, g.Needle.From)
	assert.InDelta(t, 1.0, g.Needle.To.X, 1e-9)
	assert.InDelta(t, 0.25, g.Needle.To.Y, 1e-9)
	assert.Equal(t, NeedleColor, g.Needle.Color)
	assert.Equal(t, NeedleWidth, g.Needle.Width)

	assert.Equal(t, GaugeTitle, g.Title)
	assert.Equal(t, render.Range{Min: 0, Max: 9}, g.Axis)
	require.Len(t, g.Steps, 9)
	for k, step := range g.Steps {
		assert.Equal(t, float64(k), step.Range.Min)
		assert.Equal(t, float64(k+1), step.Range.Max)
	}
	assert.Equal(t, "rgba(248,243,236,1.00)", g.Steps[0].Color)
	assert.Equal(t, "rgba(133,180,138,1.00)", g.Steps[8].Color)
}

func TestGaugeWithoutWashFrequency(t *testing.T) {
	g, err := Gauge(fixture(), 1)
	require.NoError(t, err)

	assert.False(t, g.Valid)
	assert.Nil(t, g.Needle)
	assert.Len(t, g.Steps, 9, "bands are still drawn")
}

func TestScatter(t *testing.T) {
	ds := fixture()
	for i := 0; i < ds.Len(); i++ {
		sc, err := Scatter(ds, i)
		require.NoError(t, err)
		assert.Len(t, sc.Markers, len(ds.Samples[i].OTUIDs))
		assert.Equal(t, render.ModeMarkers, sc.Mode)
	}

	sc, err := Scatter(ds, 1)
	require.NoError(t, err)
	assert.Equal(t, render.Marker{X: 3, Y: 30, Text: "c", Size: 22.5, Hue: MarkerHue(3), Color: HSLA(MarkerHue(3))}, sc.Markers[2])
}

func TestMarkerScaling(t *testing.T) {
	assert.Equal(t, 75.0, MarkerSize(100))
	assert.Equal(t, "hsla(75,100%,50%,1.0)", HSLA(MarkerHue(1000)))
	assert.InDelta(t, 0.075*2859, MarkerHue(2859), 1e-9)
}

func TestProjectorsAreIdempotent(t *testing.T) {
	ds := fixture()
	for i := 0; i < ds.Len(); i++ {
		first, err := Dispatch(ds, i)
		require.NoError(t, err)
		second, err := Dispatch(ds, i)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestDispatch(t *testing.T) {
	dash, err := Dispatch(fixture(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, dash.Index)
	assert.Equal(t, "941", dash.Subject)
	assert.Len(t, dash.Demographics.Lines, 2)
	assert.Len(t, dash.Bar.Values, render.BarSlots)
	assert.False(t, dash.Gauge.Valid)
	assert.Len(t, dash.Scatter.Markers, 3)
}

func TestDispatchRejectsBadIndex(t *testing.T) {
	for _, index := range []int{-1, 2, 100} {
		_, err := Dispatch(fixture(), index)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange, "index %d", index)
	}

	_, err := Dispatch(nil, 0)
	assert.ErrorIs(t, err, core.ErrDatasetUnavailable)
}

func TestProject(t *testing.T) {
	ds := fixture()

	got, err := Project(ds, 0, render.KindGauge)
	require.NoError(t, err)
	g, ok := got.(render.Gauge)
	require.True(t, ok)
	assert.Equal(t, 9, g.WashCount)

	_, err = Project(ds, 0, render.Kind("pie"))
	assert.Error(t, err)

	_, err = Project(ds, 5, render.KindBar)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
}

func TestNeedleAngleIsLinear(t *testing.T) {
	for w := 0; w <= GaugeMaxWash; w++ {
		want := math.Pi * (1 - float64(w)/9)
		assert.InDelta(t, want, NeedleAngle(w), 1e-12)
	}
}
