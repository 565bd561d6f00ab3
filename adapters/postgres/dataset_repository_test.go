package postgres

import (
	"context"
	"os"
	"testing"

	"biodash/domain/core"
	"biodash/domain/dataset"
	"biodash/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940", "941"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "gender", "F", "age", 24, "wfreq", 2),
			dataset.NewMetadataRecord("id", 941, "gender", "M", "wfreq", nil),
		},
		Samples: []dataset.SampleRecord{
			{ID: "940", OTUIDs: []int{1167, 2859}, OTULabels: []string{"Bacteria", "Bacteria;Firmicutes"}, SampleValues: []float64{163, 126}},
			{ID: "941", OTUIDs: []int{}, OTULabels: []string{}, SampleValues: []float64{}},
		},
	}
}

func TestRowsRoundTrip(t *testing.T) {
	subjects, samples, err := toRows(fixture())
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
	assert.Len(t, samples, 2)
	assert.Equal(t, 1, samples[1].Rank)

	ds, err := fromRows(subjects, samples)
	require.NoError(t, err)
	assert.Equal(t, fixture().Names, ds.Names)
	assert.Equal(t, fixture().Samples, ds.Samples)

	keys := []string{}
	for _, f := range ds.Metadata[0].Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"id", "gender", "age", "wfreq"}, keys)
}

func TestToRowsRejectsMisalignedDataset(t *testing.T) {
	ds := fixture()
	ds.Names = ds.Names[:1]
	_, _, err := toRows(ds)
	assert.ErrorIs(t, err, core.ErrMisalignedDataset)

	ds = fixture()
	ds.Samples[0].OTULabels = ds.Samples[0].OTULabels[:1]
	_, _, err = toRows(ds)
	assert.ErrorIs(t, err, core.ErrMisalignedSample)
}

func TestFromRowsRejectsOrphanSamples(t *testing.T) {
	_, err := fromRows(nil, []sampleRow{{SubjectPosition: 3}})
	assert.Error(t, err)
}

func TestDatasetRepositoryLive(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping live test: TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	repo := NewDatasetRepository(db, "test")
	require.NoError(t, repo.Replace(ctx, fixture()))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ds, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixture().Names, ds.Names)
	assert.Equal(t, fixture().Samples, ds.Samples)
}
