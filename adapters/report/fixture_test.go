package report

import (
	"fmt"
	"time"

	"sheetdiff/domain/core"
	"sheetdiff/domain/diff"
	"sheetdiff/domain/run"
	"sheetdiff/domain/sheet"
)

var fixtureStart = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

// fixtureRecord is a two-group run: school-a has a differing pair, a pair
// that could not be opened and a warning; school-b is clean.
func fixtureRecord() *run.Record {
	differing := run.NewPairResult("/batch/school-a/V1/会計.xlsx", "/batch/school-a/V2/会計.xlsx")
	differing.Base = "会計"
	differing.AddSheet(&diff.SheetReport{
		Sheet:         "会計簿",
		Strategy:      "ledger",
		MismatchCount: 3,
		Mismatches: []diff.Mismatch{
			{Sheet: "会計簿", Row1: 10, Col1: 6, Val1: sheet.Number(100), Row2: 15, Col2: 6, Val2: sheet.Number(120), Category: diff.CategoryPlain},
			{Sheet: "会計簿", Row2: 20, Col2: 5, Val2: sheet.Text("雑費"), Category: diff.CategoryPresence, Label: "支出 - 雑費"},
		},
		Failures: []diff.CellFailure{
			{Sheet: "会計簿", Row: 12, Col: 7, Side: diff.SideV2, Message: "bad cell"},
		},
	})

	broken := run.NewPairResult("/batch/school-a/V1/名簿.xlsx", "/batch/school-a/V2/名簿.xlsx")
	broken.Fail(fmt.Errorf("cannot open"))

	clean := run.NewPairResult("/batch/school-b/V1/行事.xlsx", "/batch/school-b/V2/行事.xlsx")

	return &run.Record{
		ID:         core.NewRunID(),
		Root:       "/batch",
		StartedAt:  core.NewTimestamp(fixtureStart),
		FinishedAt: core.NewTimestamp(fixtureStart.Add(time.Minute)),
		Groups: []*run.GroupResult{
			{Name: "school-a", Pairs: []*run.PairResult{differing, broken}, Warnings: []string{"no matching file for 予算.xlsx in V2"}},
			{Name: "school-b", Pairs: []*run.PairResult{clean}},
		},
		Summary: run.Summary{
			Groups: 2, Pairs: 3, DifferingPairs: 1, FailedPairs: 1, TotalMismatches: 3,
			MeanMismatches: 1, MedianMismatches: 0, MaxMismatches: 3, P90Mismatches: 3, StdDevMismatches: 1.41,
		},
	}
}
