package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"biodash/adapters/echarts"
	"biodash/domain/dataset"
	"biodash/domain/render"
	"biodash/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct{ failOn string }

func (s stubRenderer) RenderBar(w io.Writer, spec render.BarChart) error {
	_, err := fmt.Fprint(w, "bar")
	return err
}
func (s stubRenderer) RenderGauge(w io.Writer, spec render.Gauge) error { return errors.New("no gauge") }
func (s stubRenderer) RenderScatter(w io.Writer, spec render.Scatter) error {
	if len(spec.Markers) == 0 {
		return errors.New("empty")
	}
	_, err := fmt.Fprint(w, "scatter")
	return err
}
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) RenderDashboard(w io.Writer, dash *render.Dashboard) error {
	if dash.Subject == s.failOn {
		return errors.New("render failed")
	}
	_, err := fmt.Fprintf(w, "dashboard %s", dash.Subject)
	return err
}

type memTarget struct {
	mu    sync.Mutex
	files map[string]string
}

func (m *memTarget) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key] = string(data)
	return nil
}
func (m *memTarget) Describe() string { return "memory" }

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940", "941", "943"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "wfreq", 2),
			dataset.NewMetadataRecord("id", 941, "wfreq", 3),
			dataset.NewMetadataRecord("id", 943, "wfreq", 4),
		},
		Samples: []dataset.SampleRecord{
			{ID: "940", OTUIDs: []int{1}, OTULabels: []string{"a"}, SampleValues: []float64{5}},
			{ID: "941", OTUIDs: []int{2}, OTULabels: []string{"b"}, SampleValues: []float64{6}},
			{ID: "943", OTUIDs: []int{}, OTULabels: []string{}, SampleValues: []float64{}},
		},
	}
}

func quietLogger() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func TestExportWritesEverySubject(t *testing.T) {
	target := &memTarget{files: map[string]string{}}
	exp := New(stubRenderer{}, stubRenderer{}, target, quietLogger())

	res, err := exp.Export(context.Background(), fixture(), Options{Workers: 2, PNG: true, Report: true})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Subjects)
	assert.Equal(t, int64(1), res.Skipped) // subject 943 has nothing to scatter
	assert.Equal(t, "dashboard 941", target.files["subjects/1/index.html"])
	assert.Contains(t, target.files["subjects/0/dashboard.json"], `"subject": "940"`)
	assert.Contains(t, target.files["subjects/2/report.html"], "Subject 943")
	assert.Equal(t, "scatter", target.files["subjects/0/scatter.png"])
	assert.NotContains(t, target.files, "subjects/2/scatter.png")
	assert.Contains(t, target.files["index.html"], `<a href="subjects/2/index.html">943</a>`)
	assert.Equal(t, int64(len(target.files)), res.Files)
}

func TestExportDashboardShowsDemographics(t *testing.T) {
	ds := fixture()
	ds.Names, ds.Metadata, ds.Samples = ds.Names[:1], ds.Metadata[:1], ds.Samples[:1]
	ds.Metadata[0] = dataset.NewMetadataRecord("id", 940, "gender", "F", "wfreq", 2)

	target := &memTarget{files: map[string]string{}}
	res, err := New(echarts.New(), nil, target, quietLogger()).Export(context.Background(), ds, Options{Workers: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Subjects)

	page := target.files["subjects/0/index.html"]
	assert.Contains(t, page, "<li>gender:F</li>")
	assert.Contains(t, page, "<li>wfreq:2</li>")
	assert.Contains(t, page, "goecharts_biodash_gauge")
}

func TestExportStopsOnFailure(t *testing.T) {
	target := &memTarget{files: map[string]string{}}
	exp := New(stubRenderer{failOn: "941"}, nil, target, quietLogger())

	_, err := exp.Export(context.Background(), fixture(), Options{Workers: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject 1")
}

func TestExportRequiresPNGRenderer(t *testing.T) {
	exp := New(stubRenderer{}, nil, &memTarget{files: map[string]string{}}, quietLogger())
	_, err := exp.Export(context.Background(), fixture(), Options{PNG: true})
	assert.Error(t, err)
}

func TestDirTarget(t *testing.T) {
	dir := t.TempDir()
	target := NewDirTarget(dir)

	require.NoError(t, target.Put(context.Background(), "subjects/0/index.html", "text/html", strings.NewReader("one")))
	require.NoError(t, target.Put(context.Background(), "subjects/0/index.html", "text/html", bytes.NewReader([]byte("two"))))

	data, err := os.ReadFile(filepath.Join(dir, "subjects", "0", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	assert.Error(t, target.Put(context.Background(), "../escape.html", "text/html", strings.NewReader("x")))
	assert.Error(t, target.Put(context.Background(), "/abs.html", "text/html", strings.NewReader("x")))
}
