package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sheetdiff/domain/diff"
)

// markKey identifies a derived style: the cell's original style with a
// category fill.
type markKey struct {
	style    int
	category diff.Category
}

// Mark implements diff.Annotator. The cell keeps its existing style (number
// format, font, borders); only the fill changes. Derived styles are created
// once per (style, category).
func (w *Workbook) Mark(sheetName string, row, col int, category diff.Category) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	styleID, err := w.file.GetCellStyle(sheetName, cell)
	if err != nil {
		return fmt.Errorf("failed to read style of %s!%s: %w", sheetName, cell, err)
	}

	key := markKey{style: styleID, category: category}
	marked, ok := w.marks[key]
	if !ok {
		marked, err = w.markedStyle(styleID, category)
		if err != nil {
			return err
		}
		w.marks[key] = marked
	}

	if err := w.file.SetCellStyle(sheetName, cell, cell, marked); err != nil {
		return fmt.Errorf("failed to mark %s!%s: %w", sheetName, cell, err)
	}
	return nil
}

func (w *Workbook) markedStyle(styleID int, category diff.Category) (int, error) {
	style := &excelize.Style{}
	if base, err := w.file.GetStyle(styleID); err == nil && base != nil {
		copied := *base
		style = &copied
	}
	style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{w.config.fill(category)}}

	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s mark style: %w", category, err)
	}
	return id, nil
}
