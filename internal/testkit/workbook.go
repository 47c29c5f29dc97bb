package testkit

import (
	"context"
	"fmt"

	"sheetdiff/domain/core"
	"sheetdiff/domain/sheet"
	"sheetdiff/ports"
)

// Workbook is an in-memory ports.Workbook. Marks are recorded by the
// embedded Annotator.
type Workbook struct {
	*Annotator
	path    string
	order   []string
	grids   map[string]*Grid
	hidden  map[string]bool
	failing map[string]error

	// SavedAs lists every path passed to SaveAs.
	SavedAs []string
	SaveErr error
	Closed  bool
}

// NewWorkbook creates a workbook whose sheets are grids, in order
func NewWorkbook(path string, grids ...*Grid) *Workbook {
	wb := &Workbook{
		Annotator: NewAnnotator(),
		path:      path,
		grids:     make(map[string]*Grid),
		hidden:    make(map[string]bool),
		failing:   make(map[string]error),
	}
	for _, g := range grids {
		wb.Add(g)
	}
	return wb
}

// Add appends a sheet
func (wb *Workbook) Add(g *Grid) *Workbook {
	if _, ok := wb.grids[g.Name()]; !ok {
		wb.order = append(wb.order, g.Name())
	}
	wb.grids[g.Name()] = g
	return wb
}

// Hide marks a sheet hidden
func (wb *Workbook) Hide(name string) *Workbook {
	wb.hidden[name] = true
	return wb
}

// FailSheet makes opening a sheet return err
func (wb *Workbook) FailSheet(name string, err error) *Workbook {
	wb.failing[name] = err
	return wb
}

// Path implements sheet.Workbook
func (wb *Workbook) Path() string { return wb.path }

// VisibleSheets implements sheet.Workbook
func (wb *Workbook) VisibleSheets() ([]string, error) {
	var out []string
	for _, name := range wb.order {
		if !wb.hidden[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

// Sheet implements sheet.Workbook
func (wb *Workbook) Sheet(name string) (sheet.Grid, error) {
	if err := wb.failing[name]; err != nil {
		return nil, err
	}
	g, ok := wb.grids[name]
	if !ok {
		return nil, core.NewNotFoundError("sheet", name)
	}
	return g, nil
}

// SaveAs implements ports.Workbook by recording path
func (wb *Workbook) SaveAs(path string) error {
	if wb.SaveErr != nil {
		return wb.SaveErr
	}
	wb.SavedAs = append(wb.SavedAs, path)
	return nil
}

// Close implements ports.Workbook
func (wb *Workbook) Close() error {
	wb.Closed = true
	return nil
}

// Source is an in-memory ports.WorkbookOpener keyed by path
type Source struct {
	Workbooks map[string]*Workbook
	Opened    []string
}

// NewSource creates a source serving the given workbooks by their paths
func NewSource(workbooks ...*Workbook) *Source {
	s := &Source{Workbooks: make(map[string]*Workbook)}
	for _, wb := range workbooks {
		s.Workbooks[wb.Path()] = wb
	}
	return s
}

// Open implements ports.WorkbookOpener
func (s *Source) Open(ctx context.Context, path string) (ports.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Opened = append(s.Opened, path)
	wb, ok := s.Workbooks[path]
	if !ok {
		return nil, core.NewUnreadableInputError(path, fmt.Errorf("no such workbook"))
	}
	return wb, nil
}
