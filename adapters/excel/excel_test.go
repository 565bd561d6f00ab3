package excel

import (
	"context"
	"path/filepath"
	"testing"

	"biodash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940", "941"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "ethnicity", "Caucasian", "gender", "F", "age", 24, "wfreq", 2),
			dataset.NewMetadataRecord("id", 941, "gender", "M", "age", 34, "wfreq", nil, "location", "Chicago/IL"),
		},
		Samples: []dataset.SampleRecord{
			{ID: "940", OTUIDs: []int{1167, 2859, 482}, OTULabels: []string{"Bacteria;Bacteroidetes", "Bacteria;Firmicutes", "Bacteria"}, SampleValues: []float64{163, 126, 8.5}},
			{ID: "941", OTUIDs: []int{944}, OTULabels: []string{"Bacteria;Actinobacteria"}, SampleValues: []float64{113}},
		},
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.xlsx")
	require.NoError(t, WriteFile(path, fixture()))

	src := NewWorkbookSource(path)
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, "excel", src.Name())
	assert.Equal(t, []string{"940", "941"}, ds.Names)
	assert.Equal(t, fixture().Samples, ds.Samples)

	first := ds.Metadata[0]
	keys := make([]string, 0, first.Len())
	for _, f := range first.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"id", "ethnicity", "gender", "age", "wfreq"}, keys)

	wfreq, ok := first.Float(dataset.WashFrequencyField)
	assert.True(t, ok)
	assert.Equal(t, 2.0, wfreq)

	// second subject has no ethnicity cell and an explicit null wash frequency
	_, ok = ds.Metadata[1].Get("ethnicity")
	assert.False(t, ok)
	v, ok := ds.Metadata[1].Get(dataset.WashFrequencyField)
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, []int{1}, ds.MissingWashFrequency())
}

func TestWorkbookMissingFile(t *testing.T) {
	_, err := NewWorkbookSource(filepath.Join(t.TempDir(), "missing.xlsx")).Load(context.Background())
	assert.Error(t, err)
}

func TestCellValue(t *testing.T) {
	assert.Nil(t, cellValue("null"))
	assert.Equal(t, "F", cellValue("F"))
	assert.Equal(t, "inf", cellValue("inf"))
	n, ok := dataset.ToFloat(cellValue("8.6"))
	assert.True(t, ok)
	assert.Equal(t, 8.6, n)
}
