package testkit

import (
	"fmt"
	"time"

	"sheetdiff/domain/core"
	"sheetdiff/domain/sheet"
)

type cellKey struct{ row, col int }

// Grid is an in-memory sheet.Grid for tests
type Grid struct {
	name     string
	cells    map[cellKey]sheet.Value
	failures map[cellKey]error
	panics   map[cellKey]bool
	maxRow   int
	maxCol   int
}

// NewGrid builds a grid from rows of plain Go values, first row = row 1.
// See Value for the accepted types.
func NewGrid(name string, rows ...[]any) *Grid {
	g := &Grid{
		name:     name,
		cells:    make(map[cellKey]sheet.Value),
		failures: make(map[cellKey]error),
		panics:   make(map[cellKey]bool),
	}
	for i, row := range rows {
		for j, v := range row {
			g.Set(i+1, j+1, v)
		}
	}
	return g
}

// Value converts a plain Go value into a raw cell value: nil is empty,
// strings are text, ints and floats are numbers, time.Time is a date-time.
func Value(v any) sheet.Value {
	switch x := v.(type) {
	case nil:
		return sheet.Empty
	case sheet.Value:
		return x
	case string:
		return sheet.Text(x)
	case int:
		return sheet.Number(float64(x))
	case float64:
		return sheet.Number(x)
	case bool:
		return sheet.Bool(x)
	case time.Time:
		return sheet.DateTime(x)
	default:
		panic(fmt.Sprintf("testkit: unsupported cell value %T", v))
	}
}

// Set writes one cell and grows the extents. nil leaves the cell and the
// extents alone; sheet.Empty extends them.
func (g *Grid) Set(row, col int, v any) *Grid {
	cv := Value(v)
	if !cv.IsEmpty() {
		g.cells[cellKey{row, col}] = cv
	}
	if v != nil {
		g.maxRow = max(g.maxRow, row)
		g.maxCol = max(g.maxCol, col)
	}
	return g
}

// SetRow writes values into row starting at column 1
func (g *Grid) SetRow(row int, values ...any) *Grid {
	for i, v := range values {
		g.Set(row, i+1, v)
	}
	return g
}

// FailAt makes reads of (row, col) return err
func (g *Grid) FailAt(row, col int, err error) *Grid {
	g.failures[cellKey{row, col}] = err
	return g
}

// PanicAt makes reads of (row, col) panic
func (g *Grid) PanicAt(row, col int) *Grid {
	g.panics[cellKey{row, col}] = true
	return g
}

// Name implements sheet.Grid
func (g *Grid) Name() string { return g.name }

// MaxRow implements sheet.Grid
func (g *Grid) MaxRow() int { return g.maxRow }

// MaxColumn implements sheet.Grid
func (g *Grid) MaxColumn() int { return g.maxCol }

// Cell implements sheet.Grid
func (g *Grid) Cell(row, col int) (sheet.Value, error) {
	k := cellKey{row, col}
	if g.panics[k] {
		panic(fmt.Sprintf("testkit: cell (%d, %d) panics", row, col))
	}
	if err := g.failures[k]; err != nil {
		return sheet.Value{}, core.NewCellAccessError(g.name, row, col, err)
	}
	if v, ok := g.cells[k]; ok {
		return v, nil
	}
	return sheet.Empty, nil
}
