package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseDatasetID tests dataset ID parsing
func TestParseDatasetID(t *testing.T) {
	tests := []struct {
		input    string
		expected DatasetID
		hasError bool
	}{
		{"valid-id", DatasetID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseDatasetID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestParseSubjectIndex tests selection value parsing
func TestParseSubjectIndex(t *testing.T) {
	tests := []struct {
		input    string
		expected SubjectIndex
		hasError bool
	}{
		{"0", 0, false},
		{" 12 ", 12, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-1", 0, true},
	}

	for _, test := range tests {
		result, err := ParseSubjectIndex(test.input)
		if test.hasError {
			if err == nil {
				t.Errorf("Expected error for input '%s', but got none", test.input)
			} else if !IsIndexError(err) {
				t.Errorf("Expected index error for input '%s', got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %d, got %d", test.expected, result)
		}
	}
}

func TestCheckIndex(t *testing.T) {
	if err := CheckIndex(0, 1); err != nil {
		t.Errorf("index 0 of 1 should be valid: %v", err)
	}
	err := CheckIndex(2, 2)
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if !errors.Is(CheckIndex(-1, 5), ErrInvalidIndex) {
		t.Error("negative index should be an index error")
	}
}

func TestHashShort(t *testing.T) {
	h := NewHash([]byte("samples"))
	if len(h) != 64 {
		t.Fatalf("Expected 64 hex chars, got %d", len(h))
	}
	if h.Short() != string(h)[:12] {
		t.Errorf("Short() = %s", h.Short())
	}
}
