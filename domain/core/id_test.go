package core

import (
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

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	valid := NewRunID()
	parsed, err := ParseRunID(valid.String())
	if err != nil {
		t.Fatalf("Expected valid run ID to parse, got %v", err)
	}
	if parsed != valid {
		t.Errorf("Expected %s, got %s", valid, parsed)
	}

	if _, err := ParseRunID("   "); err == nil {
		t.Error("Expected error for blank run ID")
	}
	if _, err := ParseRunID("not-a-uuid"); err == nil {
		t.Error("Expected error for malformed run ID")
	}
}

// TestErrorKinds tests that constructed errors keep their sentinel
func TestErrorKinds(t *testing.T) {
	if !IsStructuralError(ErrNoCommonSheets) {
		t.Error("Expected ErrNoCommonSheets to be structural")
	}
	if !IsCellAccessError(NewCellAccessError("Sheet1", 2, 3, ErrNotFound)) {
		t.Error("Expected cell access error to match ErrCellAccess")
	}
	if !IsUnreadableInputError(NewUnreadableInputError("a.xlsx", ErrNotFound)) {
		t.Error("Expected unreadable input error to match ErrUnreadableInput")
	}
	if !IsNotFoundError(NewNotFoundError("run", "x")) {
		t.Error("Expected not found error to match ErrNotFound")
	}
}
