package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound = errors.New("resource not found")

	// Selection errors
	ErrInvalidIndex    = errors.New("invalid subject index")
	ErrIndexOutOfRange = fmt.Errorf("%w: out of range", ErrInvalidIndex)

	// Dataset schema errors
	ErrDatasetInvalid    = errors.New("invalid dataset")
	ErrEmptyDataset      = fmt.Errorf("%w: no subjects", ErrDatasetInvalid)
	ErrMisalignedDataset = fmt.Errorf("%w: names, metadata and samples differ in length", ErrDatasetInvalid)
	ErrMisalignedSample  = fmt.Errorf("%w: sample sequences differ in length", ErrDatasetInvalid)
	ErrMissingField      = fmt.Errorf("%w: missing field", ErrDatasetInvalid)
	ErrNegativeAbundance = fmt.Errorf("%w: negative abundance", ErrDatasetInvalid)

	// Loading errors
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// Rendering errors
	ErrUnsupportedChart = errors.New("chart kind not supported by renderer")
)

// NewIndexOutOfRangeError reports a selection outside [0, size).
func NewIndexOutOfRangeError(index, size int) error {
	return fmt.Errorf("%w: index %d not in [0, %d)", ErrIndexOutOfRange, index, size)
}

// NewMisalignedSampleError reports which subject carries unequal sequences.
func NewMisalignedSampleError(subject int, ids, labels, values int) error {
	return fmt.Errorf("%w: subject %d has %d otu_ids, %d otu_labels, %d sample_values",
		ErrMisalignedSample, subject, ids, labels, values)
}

// NewMissingFieldError reports a required field absent from a record.
func NewMissingFieldError(subject int, field string) error {
	return fmt.Errorf("%w: subject %d has no %q", ErrMissingField, subject, field)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsIndexError(err error) bool {
	return errors.Is(err, ErrInvalidIndex)
}

func IsDatasetError(err error) bool {
	return errors.Is(err, ErrDatasetInvalid)
}
