package testkit

import (
	"fmt"

	"sheetdiff/domain/diff"
)

// Mark is one recorded annotation
type Mark struct {
	Sheet    string
	Row      int
	Col      int
	Category diff.Category
}

// Annotator records marks instead of styling cells
type Annotator struct {
	Marks    []Mark
	failures map[cellKey]error
}

// NewAnnotator creates a recording annotator
func NewAnnotator() *Annotator {
	return &Annotator{failures: make(map[cellKey]error)}
}

// FailAt makes marking (row, col) fail
func (a *Annotator) FailAt(row, col int, err error) *Annotator {
	a.failures[cellKey{row, col}] = err
	return a
}

// Mark implements diff.Annotator
func (a *Annotator) Mark(sheetName string, row, col int, category diff.Category) error {
	if err := a.failures[cellKey{row, col}]; err != nil {
		return fmt.Errorf("mark %s (%d, %d): %w", sheetName, row, col, err)
	}
	a.Marks = append(a.Marks, Mark{Sheet: sheetName, Row: row, Col: col, Category: category})
	return nil
}
