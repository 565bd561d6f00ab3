package testkit

import (
	"reflect"
	"testing"

	"biodash/domain/dataset"
)

func TestSampleGenerator_Valid(t *testing.T) {
	config := DefaultSampleConfig()
	config.SubjectCount = 25

	ds, err := NewSampleGenerator(config).Generate()
	if err != nil {
		t.Fatalf("Failed to generate dataset: %v", err)
	}
	if ds.Len() != 25 {
		t.Fatalf("Expected 25 subjects, got %d", ds.Len())
	}
	if err := ds.Validate(); err != nil {
		t.Fatalf("Generated dataset is invalid: %v", err)
	}

	for i, sample := range ds.Samples {
		if sample.ID != ds.Names[i] {
			t.Errorf("Subject %d: sample id %q does not match name %q", i, sample.ID, ds.Names[i])
		}
		for j := 1; j < len(sample.SampleValues); j++ {
			if sample.SampleValues[j] > sample.SampleValues[j-1] {
				t.Errorf("Subject %d: values not descending at %d", i, j)
				break
			}
		}
		seen := make(map[int]bool)
		for _, id := range sample.OTUIDs {
			if seen[id] {
				t.Errorf("Subject %d: duplicate otu id %d", i, id)
			}
			seen[id] = true
		}
	}

	first := ds.Metadata[0].Fields[0]
	if first.Key != "id" {
		t.Errorf("Expected id as first metadata field, got %q", first.Key)
	}
}

func TestSampleGenerator_Deterministic(t *testing.T) {
	config := DefaultSampleConfig()
	config.SubjectCount = 10

	a, err := NewSampleGenerator(config).Generate()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSampleGenerator(config).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Same seed produced different datasets")
	}
}

func TestSampleGenerator_MissingWash(t *testing.T) {
	config := DefaultSampleConfig()
	config.SubjectCount = 20
	config.MissingWash = 1

	ds, err := NewSampleGenerator(config).Generate()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(ds.MissingWashFrequency()); got != 20 {
		t.Errorf("Expected every subject without wfreq, got %d missing", got)
	}
	if v, ok := ds.Metadata[0].Get(dataset.WashFrequencyField); !ok || v != nil {
		t.Errorf("Expected wfreq present as null, got %v (present=%v)", v, ok)
	}
}

func TestSampleGenerator_RejectsBadConfig(t *testing.T) {
	config := DefaultSampleConfig()
	config.MaxTaxa = config.OTUPool + 1
	if _, err := NewSampleGenerator(config).Generate(); err == nil {
		t.Error("Expected error for otu pool smaller than max taxa")
	}

	config = DefaultSampleConfig()
	config.SubjectCount = 0
	if _, err := NewSampleGenerator(config).Generate(); err == nil {
		t.Error("Expected error for zero subjects")
	}
}
