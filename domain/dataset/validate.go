package dataset

import (
	"errors"
	"fmt"

	"biodash/domain/core"
)

// Validate checks the structural invariants every projection relies on:
// names, metadata and samples are index-aligned, each sample's three
// sequences are equal length, abundances are non-negative, and every
// metadata record carries its identifying first field.
//
// A missing wash frequency is not an error; the gauge degrades on its own.
func (d *Dataset) Validate() error {
	if d == nil || len(d.Names) == 0 {
		return core.ErrEmptyDataset
	}
	if len(d.Metadata) != len(d.Names) || len(d.Samples) != len(d.Names) {
		return fmt.Errorf("%w: %d names, %d metadata, %d samples",
			core.ErrMisalignedDataset, len(d.Names), len(d.Metadata), len(d.Samples))
	}

	var errs []error
	for i := range d.Names {
		if d.Metadata[i].Len() == 0 {
			errs = append(errs, core.NewMissingFieldError(i, "id"))
		}
		s := d.Samples[i]
		if len(s.OTULabels) != len(s.OTUIDs) || len(s.SampleValues) != len(s.OTUIDs) {
			errs = append(errs, core.NewMisalignedSampleError(i, len(s.OTUIDs), len(s.OTULabels), len(s.SampleValues)))
			continue
		}
		for j, v := range s.SampleValues {
			if v < 0 {
				errs = append(errs, fmt.Errorf("%w: subject %d taxon %d has %v", core.ErrNegativeAbundance, i, s.OTUIDs[j], v))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// MissingWashFrequency lists subjects whose wash frequency cannot be read as a
// number. Loaders log these as warnings.
func (d *Dataset) MissingWashFrequency() []int {
	var missing []int
	for i, m := range d.Metadata {
		if _, ok := m.Float(WashFrequencyField); !ok {
			missing = append(missing, i)
		}
	}
	return missing
}
