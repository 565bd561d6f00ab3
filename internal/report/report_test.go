package report

import (
	"testing"
	"time"

	"biodash/domain/core"
	"biodash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940", "941"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "ethnicity", "Caucasian", "gender", "F", "wfreq", 8.6),
			dataset.NewMetadataRecord("id", 941, "gender", "M"),
		},
		Samples: []dataset.SampleRecord{
			{ID: "940", OTUIDs: []int{1, 2, 3}, OTULabels: []string{"Bacteria;A", "Bacteria;B", "Bacteria;C"}, SampleValues: []float64{10, 20, 30}},
			{ID: "941", OTUIDs: []int{}, OTULabels: []string{}, SampleValues: []float64{}},
		},
	}
}

func generator() *Generator {
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return &Generator{Now: func() time.Time { return fixed }}
}

func TestGenerate(t *testing.T) {
	r, err := generator().Generate(fixture(), 0)
	require.NoError(t, err)

	assert.False(t, r.ID.String() == "")
	assert.Equal(t, "940", r.Subject)
	assert.Contains(t, r.Markdown, "# Subject 940")
	assert.Contains(t, r.Markdown, "2026-10-18T12:00:00Z")
	assert.Contains(t, r.Markdown, "- ethnicity:Caucasian")
	assert.NotContains(t, r.Markdown, "id:940")
	assert.Contains(t, r.Markdown, "9 washes per week")
	assert.Contains(t, r.Markdown, "| 1 | OTU-1 | 10 | Bacteria;A |")
	assert.Contains(t, r.Markdown, "| 3 | OTU-3 | 30 | Bacteria;C |")
}

func TestGenerateWithoutWashOrTaxa(t *testing.T) {
	r, err := generator().Generate(fixture(), 1)
	require.NoError(t, err)
	assert.Contains(t, r.Markdown, "Not reported.")
	assert.Contains(t, r.Markdown, "no taxa measured")
}

func TestGenerateBadIndex(t *testing.T) {
	_, err := generator().Generate(fixture(), -1)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
}

func TestHTML(t *testing.T) {
	r, err := generator().Generate(fixture(), 0)
	require.NoError(t, err)

	out := string(r.HTML())
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<li>gender:F</li>")
}
