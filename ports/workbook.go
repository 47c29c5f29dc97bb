package ports

import (
	"context"

	"sheetdiff/domain/diff"
	"sheetdiff/domain/sheet"
)

// Workbook is an opened comparison input. The V2 side is annotated with
// mismatch marks and saved as the result file.
type Workbook interface {
	sheet.Workbook
	diff.Annotator
	// SaveAs writes the workbook, including marks, to path.
	SaveAs(path string) error
	Close() error
}

// WorkbookOpener opens comparison inputs by path
type WorkbookOpener interface {
	Open(ctx context.Context, path string) (Workbook, error)
}

// Recalculator produces a copy of a workbook whose formula cells hold
// current values. The comparison reads cached formula results, so V2 must be
// recalculated and persisted before it is opened.
type Recalculator interface {
	// Mode names the recalculation engine ("none", "excelize", "libreoffice").
	Mode() string
	// Recalculate writes the recalculated copy of src into workDir and
	// returns its path. Implementations may return src itself when nothing
	// needs to change.
	Recalculate(ctx context.Context, src, workDir string) (string, error)
}
