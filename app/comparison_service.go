package app

import (
	"context"
	"fmt"

	"sheetdiff/domain/core"
	"sheetdiff/domain/diff"
	"sheetdiff/domain/layout"
	"sheetdiff/domain/run"
	"sheetdiff/domain/sheet"
)

// ComparisonService compares two versions of one workbook sheet by sheet
type ComparisonService struct {
	registry *layout.Registry
	sink     diff.EventSink
}

// NewComparisonService creates a comparison service. A nil registry means
// every sheet is compared positionally.
func NewComparisonService(registry *layout.Registry, sink diff.EventSink) *ComparisonService {
	if sink == nil {
		sink = diff.NopSink{}
	}
	return &ComparisonService{
		registry: registry,
		sink:     sink,
	}
}

// Registry returns the layout registry in use
func (s *ComparisonService) Registry() *layout.Registry {
	return s.registry
}

// Compare diffs every visible sheet the two workbooks share, in V1 order,
// and marks V2 cells through annotator.
//
// Only an unreadable workbook is returned as an error. No common sheets
// yields zero mismatches with status X. Sheets that cannot be aligned are
// recorded on the result and reported as events; the comparison carries on.
func (s *ComparisonService) Compare(ctx context.Context, v1, v2 sheet.Workbook, annotator diff.Annotator) (*run.PairResult, error) {
	result := run.NewPairResult(v1.Path(), v2.Path())

	names1, err := v1.VisibleSheets()
	if err != nil {
		return nil, core.NewUnreadableInputError(v1.Path(), err)
	}
	names2, err := v2.VisibleSheets()
	if err != nil {
		return nil, core.NewUnreadableInputError(v2.Path(), err)
	}

	result.CommonSheets = CommonSheets(names1, names2)
	if len(result.CommonSheets) == 0 {
		// Nothing was compared, so nothing differs, but the pair still
		// needs a look: its result file is flagged X.
		result.NoCommonSheets = true
		result.Status = run.StatusDiffering
		s.sink.Emit(diff.NoCommonSheets{V1: v1.Path(), V2: v2.Path()})
		return result, nil
	}

	engine := diff.NewEngine(annotator, s.sink)
	for _, name := range result.CommonSheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := s.compareSheet(engine, name, v1, v2)
		if err != nil {
			result.Skip(name, err)
			s.sink.Emit(diff.SheetSkipped{Sheet: name, Err: err})
			continue
		}
		result.AddSheet(report)
	}

	return result, nil
}

// compareSheet aligns one common sheet once, then diffs it.
func (s *ComparisonService) compareSheet(engine *diff.Engine, name string, v1, v2 sheet.Workbook) (*diff.SheetReport, error) {
	g1, err := v1.Sheet(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s in %s: %v", core.ErrStructural, name, v1.Path(), err)
	}
	g2, err := v2.Sheet(name)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s in %s: %v", core.ErrStructural, name, v2.Path(), err)
	}

	alignment, err := layout.Align(s.registry.Lookup(name), g1, g2)
	if err != nil {
		return nil, core.NewLabelExtractionError(name, err)
	}
	return engine.DiffSheet(alignment, g1, g2), nil
}

// CommonSheets returns the names present in both lists, in the order of the
// first.
func CommonSheets(v1, v2 []string) []string {
	in2 := make(map[string]bool, len(v2))
	for _, name := range v2 {
		in2[name] = true
	}

	var common []string
	seen := make(map[string]bool, len(v1))
	for _, name := range v1 {
		if in2[name] && !seen[name] {
			common = append(common, name)
			seen[name] = true
		}
	}
	return common
}
