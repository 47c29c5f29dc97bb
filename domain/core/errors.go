package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrNormalization marks a value that no normalization rule could
	// classify. It never escapes the normalizer; the value is compared as
	// its cleaned text instead.
	ErrNormalization = errors.New("value could not be normalized")

	// ErrCellAccess marks a failure to read or annotate a single cell.
	ErrCellAccess = errors.New("cell access failed")

	// ErrStructural marks a sheet or workbook pair that cannot be compared
	// structurally (no common sheets, label extraction failed).
	ErrStructural      = errors.New("structural comparison failure")
	ErrNoCommonSheets  = fmt.Errorf("%w: no matching sheets", ErrStructural)
	ErrLabelExtraction = fmt.Errorf("%w: label extraction failed", ErrStructural)

	// ErrUnreadableInput aborts comparison of one workbook pair.
	ErrUnreadableInput = errors.New("input could not be read")

	// ErrValidation marks an invalid record or configuration value.
	ErrValidation = errors.New("validation failed")

	// Not found errors
	ErrNotFound = errors.New("resource not found")
)

// Error constructors with context
func NewCellAccessError(sheet string, row, col int, err error) error {
	return fmt.Errorf("%w: %s (%d, %d): %v", ErrCellAccess, sheet, row, col, err)
}

func NewLabelExtractionError(sheet string, err error) error {
	return fmt.Errorf("%w for sheet %s: %v", ErrLabelExtraction, sheet, err)
}

func NewUnreadableInputError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableInput, path, err)
}

func NewValidationError(field, message string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, message)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsCellAccessError(err error) bool {
	return errors.Is(err, ErrCellAccess)
}

func IsStructuralError(err error) bool {
	return errors.Is(err, ErrStructural)
}

func IsUnreadableInputError(err error) bool {
	return errors.Is(err, ErrUnreadableInput)
}
