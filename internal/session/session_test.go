package session

import (
	"sync"
	"testing"

	"biodash/domain/core"
	"biodash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Names: []string{"940", "941"},
		Metadata: []dataset.MetadataRecord{
			dataset.NewMetadataRecord("id", 940, "ethnicity", "Caucasian", "gender", "F", "age", 24, "location", "Beaufort/NC", "bbtype", "I", "wfreq", 2),
			dataset.NewMetadataRecord("id", 941, "gender", "M"),
		},
		Samples: []dataset.SampleRecord{
			{OTUIDs: []int{1}, OTULabels: []string{"a"}, SampleValues: []float64{5}},
			{OTUIDs: []int{2, 3}, OTULabels: []string{"b", "c"}, SampleValues: []float64{6, 7}},
		},
	}
}

func TestStartSelectsDefaultSubject(t *testing.T) {
	s := New(testDataset())
	assert.False(t, s.Started())

	sel, err := s.Start()
	require.NoError(t, err)

	assert.True(t, s.Started())
	assert.Equal(t, DefaultIndex, s.Index())
	assert.Equal(t, "940", sel.Dashboard.Subject)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sel.Demographics.Enter)
	assert.Empty(t, sel.Demographics.Exit)
	assert.Len(t, s.Shown(), 5)
}

func TestSelectReconcilesDemographics(t *testing.T) {
	s := New(testDataset())
	_, err := s.Start()
	require.NoError(t, err)

	sel, err := s.Select(1)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Index())
	assert.Equal(t, []int{0}, sel.Demographics.Update)
	assert.Equal(t, []int{1, 2, 3, 4}, sel.Demographics.Exit)
	assert.Equal(t, []string{"gender:M"}, s.Shown())

	back, err := s.Select(0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, back.Demographics.Enter)
	assert.Len(t, s.Shown(), 5)
}

func TestSelectKeepsStateOnError(t *testing.T) {
	s := New(testDataset())
	_, err := s.Select(1)
	require.NoError(t, err)

	_, err = s.Select(7)
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, []string{"gender:M"}, s.Shown())
}

func TestSessionWithoutDataset(t *testing.T) {
	s := New(nil)
	_, err := s.Start()
	assert.ErrorIs(t, err, core.ErrDatasetUnavailable)

	_, err = s.Current()
	assert.ErrorIs(t, err, core.ErrDatasetUnavailable)
}

func TestConcurrentSelectionsRunToCompletion(t *testing.T) {
	s := New(testDataset())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Select(i % 2)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	dash, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, s.Index(), dash.Index)
	assert.Equal(t, len(dash.Demographics.Lines), len(s.Shown()))
}
