package sheet

// Grid is a read-only, bounded view of one sheet.
type Grid interface {
	// Name is the sheet identity (its tab title).
	Name() string
	// MaxRow is the last used row, 0 for an empty sheet.
	MaxRow() int
	// MaxColumn is the last used column, 0 for an empty sheet.
	MaxColumn() int
	// Cell returns the value at (row, col). Positions outside the extents
	// return Empty without error.
	Cell(row, col int) (Value, error)
}

// Workbook is one version of a compared input.
type Workbook interface {
	// Path identifies the input, usually its file path.
	Path() string
	// VisibleSheets lists visible sheet identities in workbook order.
	VisibleSheets() ([]string, error)
	// Sheet opens a grid by identity.
	Sheet(name string) (Grid, error)
}
