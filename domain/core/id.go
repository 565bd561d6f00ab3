package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	DatasetID ID
	ReportID  ID
)

func (id DatasetID) String() string { return ID(id).String() }
func (id ReportID) String() string  { return ID(id).String() }

// NewDatasetID creates an identifier for one loaded dataset snapshot
func NewDatasetID() DatasetID { return DatasetID(NewID()) }

// NewReportID creates an identifier for a rendered subject report
func NewReportID() ReportID { return ReportID(NewID()) }

// ParseDatasetID parses a string into DatasetID
func ParseDatasetID(s string) (DatasetID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset ID cannot be empty")
	}
	return DatasetID(s), nil
}

// SubjectIndex is the positional index of a subject inside a dataset.
type SubjectIndex int

// ParseSubjectIndex parses a selection value (the option value of the
// subject selector) into a SubjectIndex. Range checks against a concrete
// dataset are done by CheckIndex.
func ParseSubjectIndex(s string) (SubjectIndex, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty subject index", ErrInvalidIndex)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIndex, s)
	}
	if n < 0 {
		return 0, NewIndexOutOfRangeError(n, 0)
	}
	return SubjectIndex(n), nil
}

// CheckIndex verifies 0 <= index < size.
func CheckIndex(index, size int) error {
	if index < 0 || index >= size {
		return NewIndexOutOfRangeError(index, size)
	}
	return nil
}
