// Package diff compares aligned rows cell by cell and reports mismatches.
package diff

import (
	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// Category tells how two cells were compared when they disagreed.
type Category string

const (
	CategoryDate     Category = "date"
	CategoryRange    Category = "range"
	CategoryPlain    Category = "plain"
	CategoryPresence Category = "presence"
)

// Mismatch is one reported difference. Raw values are kept as read so
// reports show what the user typed, not the canonical form.
type Mismatch struct {
	Sheet       string          `json:"sheet"`
	Row1        int             `json:"row1"`
	Col1        int             `json:"col1"`
	Val1        sheet.Value     `json:"val1"`
	Row2        int             `json:"row2"`
	Col2        int             `json:"col2"`
	Val2        sheet.Value     `json:"val2"`
	Category    Category        `json:"category"`
	Normalized1 normalize.Value `json:"normalized1"`
	Normalized2 normalize.Value `json:"normalized2"`
	// Label is set for presence mismatches.
	Label string `json:"label,omitempty"`
}

// Side names which part of a cell comparison failed.
type Side string

const (
	SideV1       Side = "v1"
	SideV2       Side = "v2"
	SideAnnotate Side = "annotate"
)

// CellFailure records a cell that could not be read or annotated. Each
// failed cell counts as one mismatch.
type CellFailure struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Side  Side   `json:"side"`
	Err   error  `json:"-"`
	// Message is Err's text, kept for persisted reports.
	Message string `json:"error"`
}

func newCellFailure(sheetName string, row, col int, side Side, err error) CellFailure {
	return CellFailure{Sheet: sheetName, Row: row, Col: col, Side: side, Err: err, Message: err.Error()}
}

// SheetReport collects the outcome of one sheet comparison.
type SheetReport struct {
	Sheet    string `json:"sheet"`
	Strategy string `json:"strategy"`
	// Mismatches are in row-pair order, then presence mismatches for V1
	// then V2.
	Mismatches []Mismatch `json:"mismatches"`
	// MismatchCount also counts failed cells, which have no Mismatch entry
	// unless a difference was found before the failure.
	MismatchCount int           `json:"mismatch_count"`
	Failures      []CellFailure `json:"failures,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
}

// HasMismatches reports whether the sheet contributes to the pair total
func (r *SheetReport) HasMismatches() bool {
	return r.MismatchCount > 0
}

// CountBy returns the number of recorded mismatches per category.
func (r *SheetReport) CountBy() map[Category]int {
	out := make(map[Category]int)
	for _, m := range r.Mismatches {
		out[m.Category]++
	}
	return out
}
