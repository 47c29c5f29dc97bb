package excel

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetdiff/domain/core"
	"sheetdiff/domain/sheet"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

// Opener opens .xlsx workbooks with excelize
type Opener struct {
	config ExcelConfig
}

// NewOpener creates an opener
func NewOpener(config ExcelConfig) *Opener {
	return &Opener{config: config}
}

// Open implements ports.WorkbookOpener. Legacy .xls files are rejected;
// they must be converted first (see the libreoffice recalculator).
func (o *Opener) Open(ctx context.Context, path string) (ports.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return nil, errors.InputUnreadable(path, core.NewUnreadableInputError(path, fmt.Errorf("legacy .xls format needs conversion")))
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.InputUnreadable(path, core.NewUnreadableInputError(path, err))
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	log.Printf("[ExcelWorkbook] Opened %s in %.2fms", filepath.Base(path), float64(time.Since(startTime).Nanoseconds())/1e6)

	return &Workbook{
		file:       f,
		path:       path,
		config:     o.config,
		date1904:   date1904,
		grids:      make(map[string]*Grid),
		dateStyles: make(map[int]dateKind),
		marks:      make(map[markKey]int),
	}, nil
}

// Workbook is an open excelize file. Reading, marking and saving all go
// through the same file, so the saved result carries the marks.
type Workbook struct {
	file     *excelize.File
	path     string
	config   ExcelConfig
	date1904 bool

	grids      map[string]*Grid
	dateStyles map[int]dateKind
	marks      map[markKey]int
}

// Path implements sheet.Workbook
func (w *Workbook) Path() string { return w.path }

// VisibleSheets implements sheet.Workbook
func (w *Workbook) VisibleSheets() ([]string, error) {
	var visible []string
	for _, name := range w.file.GetSheetList() {
		ok, err := w.file.GetSheetVisible(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read visibility of %s: %w", name, err)
		}
		if ok {
			visible = append(visible, name)
		}
	}
	return visible, nil
}

// Sheet implements sheet.Workbook. Grids are loaded once and cached.
func (w *Workbook) Sheet(name string) (sheet.Grid, error) {
	if g, ok := w.grids[name]; ok {
		return g, nil
	}

	idx, err := w.file.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, core.NewNotFoundError("sheet", name)
	}

	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	g := &Grid{book: w, name: name, rows: rows, maxRow: len(rows)}
	for _, row := range rows {
		g.maxCol = max(g.maxCol, len(row))
	}
	w.grids[name] = g
	return g, nil
}

// SaveAs implements ports.Workbook
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Close implements ports.Workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Grid is one worksheet. Raw values come from a single GetRows pass; types
// and styles are looked up per cell.
type Grid struct {
	book   *Workbook
	name   string
	rows   [][]string
	maxRow int
	maxCol int
}

// Name implements sheet.Grid
func (g *Grid) Name() string { return g.name }

// MaxRow implements sheet.Grid
func (g *Grid) MaxRow() int { return g.maxRow }

// MaxColumn implements sheet.Grid
func (g *Grid) MaxColumn() int { return g.maxCol }

// Cell implements sheet.Grid
func (g *Grid) Cell(row, col int) (sheet.Value, error) {
	if row < 1 || col < 1 || row > len(g.rows) || col > len(g.rows[row-1]) {
		return sheet.Empty, nil
	}
	raw := g.rows[row-1][col-1]
	if raw == "" {
		return sheet.Empty, nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return sheet.Value{}, core.NewCellAccessError(g.name, row, col, err)
	}
	v, err := g.book.cellValue(g.name, cell, raw)
	if err != nil {
		return sheet.Value{}, core.NewCellAccessError(g.name, row, col, err)
	}
	return v, nil
}
