package diff

import (
	"fmt"

	"sheetdiff/domain/core"
	"sheetdiff/domain/layout"
	"sheetdiff/domain/normalize"
	"sheetdiff/domain/sheet"
)

// Annotator marks the V2 cell of a mismatch so the saved workbook shows
// where the differences are.
type Annotator interface {
	Mark(sheetName string, row, col int, category Category) error
}

// NopAnnotator marks nothing
type NopAnnotator struct{}

// Mark implements Annotator
func (NopAnnotator) Mark(string, int, int, Category) error { return nil }

// Engine walks aligned row pairs and classifies per-cell differences.
// It holds no per-sheet state and may be reused across sheets.
type Engine struct {
	annotator Annotator
	sink      EventSink
}

// NewEngine creates an engine. Nil collaborators are replaced by no-ops.
func NewEngine(annotator Annotator, sink EventSink) *Engine {
	if annotator == nil {
		annotator = NopAnnotator{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{annotator: annotator, sink: sink}
}

// DiffSheet diffs every aligned pair of a, then reports unmatched label rows
// as presence mismatches.
func (e *Engine) DiffSheet(a layout.Alignment, g1, g2 sheet.Grid) *SheetReport {
	report := &SheetReport{Sheet: g1.Name(), Strategy: strategyName(a.Layout)}
	n := a.Layout.Normalizer()

	for _, pair := range a.Pairs {
		e.DiffRow(report, a, n, g1, g2, pair)
	}
	e.Presence(report, n, a.UnmatchedV1, SideV1)
	e.Presence(report, n, a.UnmatchedV2, SideV2)

	e.sink.Emit(SheetCompared{
		Sheet:         report.Sheet,
		Strategy:      report.Strategy,
		Pairs:         len(a.Pairs),
		MismatchCount: report.MismatchCount,
	})
	return report
}

// DiffRow compares one aligned row pair over the alignment's column range.
// A failed cell is recorded and counted once; the walk moves on to the next
// column.
func (e *Engine) DiffRow(report *SheetReport, a layout.Alignment, n *normalize.Normalizer, g1, g2 sheet.Grid, pair layout.RowPair) {
	for col := a.StartColumn; col < a.EndColumn; col++ {
		if a.Layout.Skips(pair.Row1, col) {
			continue
		}

		m, failure := e.diffCell(report.Sheet, n, g1, g2, pair, col)
		if m != nil {
			report.Mismatches = append(report.Mismatches, *m)
			e.sink.Emit(MismatchFound{Mismatch: *m})
		}
		if failure != nil {
			report.Failures = append(report.Failures, *failure)
			e.sink.Emit(CellFailed{Failure: *failure})
		}
		if m != nil || failure != nil {
			report.MismatchCount++
		}
	}
}

// diffCell compares one cell. A mismatch whose annotation failed returns
// both the mismatch and the failure.
func (e *Engine) diffCell(sheetName string, n *normalize.Normalizer, g1, g2 sheet.Grid, pair layout.RowPair, col int) (m *Mismatch, failure *CellFailure) {
	side := SideV1
	defer func() {
		if r := recover(); r != nil {
			row := pair.Row2
			if side == SideV1 {
				row = pair.Row1
			}
			err := fmt.Errorf("%w: panic: %v", core.ErrCellAccess, r)
			f := newCellFailure(sheetName, row, col, side, err)
			failure = &f
		}
	}()

	raw1, err := g1.Cell(pair.Row1, col)
	if err != nil {
		f := newCellFailure(sheetName, pair.Row1, col, SideV1, err)
		return nil, &f
	}
	side = SideV2
	raw2, err := g2.Cell(pair.Row2, col)
	if err != nil {
		f := newCellFailure(sheetName, pair.Row2, col, SideV2, err)
		return nil, &f
	}

	n1, n2 := n.Normalize(raw1), n.Normalize(raw2)
	if n1.IsAbsent() && n2.IsAbsent() {
		return nil, nil
	}
	category, equal := Classify(raw1, raw2, n1, n2)
	if equal {
		return nil, nil
	}

	m = &Mismatch{
		Sheet:       sheetName,
		Row1:        pair.Row1,
		Col1:        col,
		Val1:        raw1,
		Row2:        pair.Row2,
		Col2:        col,
		Val2:        raw2,
		Category:    category,
		Normalized1: n1,
		Normalized2: n2,
	}
	side = SideAnnotate
	if err := e.annotator.Mark(sheetName, pair.Row2, col, category); err != nil {
		f := newCellFailure(sheetName, pair.Row2, col, SideAnnotate, core.NewCellAccessError(sheetName, pair.Row2, col, err))
		return m, &f
	}
	return m, nil
}

// Presence reports label rows that exist in only one version. Entries whose
// raw label normalizes to Absent are ignored. Rows missing from V2 have no
// V2 cell to mark, so only rows missing from V1 are annotated.
func (e *Engine) Presence(report *SheetReport, n *normalize.Normalizer, unmatched []layout.LabelEntry, present Side) {
	for _, entry := range unmatched {
		norm := n.Normalize(entry.Raw)
		if norm.IsAbsent() {
			continue
		}

		m := Mismatch{Sheet: report.Sheet, Category: CategoryPresence, Label: entry.Label}
		if present == SideV1 {
			m.Row1, m.Col1, m.Val1, m.Normalized1 = entry.Row, entry.Column, entry.Raw, norm
		} else {
			m.Row2, m.Col2, m.Val2, m.Normalized2 = entry.Row, entry.Column, entry.Raw, norm
		}
		report.Mismatches = append(report.Mismatches, m)
		report.MismatchCount++
		e.sink.Emit(MismatchFound{Mismatch: m})

		if present != SideV2 {
			continue
		}
		if err := e.annotator.Mark(report.Sheet, entry.Row, entry.Column, CategoryPresence); err != nil {
			f := newCellFailure(report.Sheet, entry.Row, entry.Column, SideAnnotate, core.NewCellAccessError(report.Sheet, entry.Row, entry.Column, err))
			report.Failures = append(report.Failures, f)
			e.sink.Emit(CellFailed{Failure: f})
		}
	}
}

func strategyName(l layout.Layout) string {
	if l.Strategy == nil {
		return layout.StrategyPositional
	}
	return l.Strategy.Name()
}
