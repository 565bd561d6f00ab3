package dataset

import (
	"time"

	"biodash/domain/core"
)

// DatasetStatus represents the loading state of the dataset store
type DatasetStatus string

const (
	StatusLoading DatasetStatus = "loading"
	StatusReady   DatasetStatus = "ready"
	StatusFailed  DatasetStatus = "failed"
)

// WashFrequencyField is the metadata field driving the gauge.
const WashFrequencyField = "wfreq"

// Dataset is the whole sample document: subject names plus index-aligned
// metadata and sample records. It is never mutated after loading.
type Dataset struct {
	Names    []string         `json:"names"`
	Metadata []MetadataRecord `json:"metadata"`
	Samples  []SampleRecord   `json:"samples"`

	// Info is populated by the loader, not by the document.
	Info Info `json:"-"`
}

// Info describes where and when a dataset snapshot was loaded
type Info struct {
	ID          core.DatasetID `json:"id"`
	Source      string         `json:"source"` // "file", "http", "s3", "excel", "postgres"
	Location    string         `json:"location"`
	Fingerprint core.Hash      `json:"fingerprint,omitempty"`
	LoadedAt    time.Time      `json:"loaded_at"`
}

// SampleRecord holds one subject's taxa, index-aligned across the three sequences
type SampleRecord struct {
	ID           string    `json:"id"`
	OTUIDs       []int     `json:"otu_ids"`
	OTULabels    []string  `json:"otu_labels"`
	SampleValues []float64 `json:"sample_values"`
}

// Len returns the number of taxa measured for the subject.
func (s SampleRecord) Len() int {
	return len(s.OTUIDs)
}

// SubjectOption is one entry of the subject selector: display text is the
// subject name, value is its positional index.
type SubjectOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Len returns the number of subjects.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Names)
}

// Options builds the subject selector entries in name order.
func (d *Dataset) Options() []SubjectOption {
	options := make([]SubjectOption, 0, d.Len())
	for i, name := range d.Names {
		options = append(options, SubjectOption{Value: i, Label: name})
	}
	return options
}

// MetadataAt returns the metadata record for a subject after a range check
// against the metadata sequence itself.
func (d *Dataset) MetadataAt(index int) (MetadataRecord, error) {
	if d == nil {
		return MetadataRecord{}, core.ErrDatasetUnavailable
	}
	if err := core.CheckIndex(index, len(d.Metadata)); err != nil {
		return MetadataRecord{}, err
	}
	return d.Metadata[index], nil
}

// SampleAt returns the sample record for a subject after a range check.
func (d *Dataset) SampleAt(index int) (SampleRecord, error) {
	if d == nil {
		return SampleRecord{}, core.ErrDatasetUnavailable
	}
	if err := core.CheckIndex(index, len(d.Samples)); err != nil {
		return SampleRecord{}, err
	}
	return d.Samples[index], nil
}

// NameAt returns the display id of a subject.
func (d *Dataset) NameAt(index int) (string, error) {
	if d == nil {
		return "", core.ErrDatasetUnavailable
	}
	if err := core.CheckIndex(index, len(d.Names)); err != nil {
		return "", err
	}
	return d.Names[index], nil
}
