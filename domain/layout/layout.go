package layout

import (
	"fmt"

	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// ExcludedColumn skips one column for rows past a threshold.
type ExcludedColumn struct {
	Column   int `yaml:"column" json:"column"`
	AfterRow int `yaml:"after_row" json:"after_row"`
}

// Layout binds a sheet identity to how its rows are aligned and which
// columns are compared.
type Layout struct {
	Sheet       string
	Strategy    Strategy
	StartRow    int
	StartColumn int
	// EndColumn is exclusive. Zero means the wider of the two sheets.
	EndColumn int
	Options   normalize.Options
	Excluded  *ExcludedColumn
}

// DefaultLayout is the positional layout applied to unknown sheets.
func DefaultLayout(sheetName string) Layout {
	return Layout{
		Sheet:       sheetName,
		Strategy:    Positional{},
		StartRow:    1,
		StartColumn: 1,
	}
}

// Keyed reports whether rows are aligned by label rather than position.
func (l Layout) Keyed() bool {
	if l.Strategy == nil {
		return false
	}
	_, positional := l.Strategy.(Positional)
	return !positional
}

// Columns returns the compared column range [start, end) for two grids.
func (l Layout) Columns(g1, g2 sheet.Grid) (int, int) {
	start := l.StartColumn
	if start < 1 {
		start = 1
	}
	end := l.EndColumn
	if end == 0 {
		end = max(g1.MaxColumn(), g2.MaxColumn()) + 1
	}
	return start, end
}

// Skips reports whether the cell at (row, col) is excluded from diffing.
// row is the V1 row of the pair.
func (l Layout) Skips(row, col int) bool {
	return l.Excluded != nil && col == l.Excluded.Column && row > l.Excluded.AfterRow
}

// Normalizer returns a normalizer configured for this layout's cells.
func (l Layout) Normalizer() *normalize.Normalizer {
	return normalize.New(l.Options)
}

// Validate checks the layout's bounds
func (l Layout) Validate() error {
	if l.Sheet == "" {
		return fmt.Errorf("layout has no sheet identity")
	}
	if l.Strategy == nil {
		return fmt.Errorf("layout %q has no strategy", l.Sheet)
	}
	if l.StartRow < 1 {
		return fmt.Errorf("layout %q: start row must be >= 1, got %d", l.Sheet, l.StartRow)
	}
	if l.EndColumn != 0 && l.EndColumn <= l.StartColumn {
		return fmt.Errorf("layout %q: end column %d must exceed start column %d", l.Sheet, l.EndColumn, l.StartColumn)
	}
	return nil
}
