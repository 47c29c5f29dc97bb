package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetdiff/domain/core"
	"sheetdiff/domain/diff"
	"sheetdiff/domain/layout"
	"sheetdiff/domain/run"
	"sheetdiff/internal/testkit"
)

func eventsRegistry(t *testing.T) *layout.Registry {
	t.Helper()
	r, err := layout.NewRegistry(layout.Definition{
		Sheet:       "events",
		Strategy:    layout.StrategyList,
		StartRow:    2,
		EndColumn:   4,
		LabelColumn: 1,
		Suppressed:  "合計",
	})
	require.NoError(t, err)
	return r
}

func TestCommonSheets_KeepsV1Order(t *testing.T) {
	got := CommonSheets([]string{"c", "a", "b", "a"}, []string{"a", "b", "c", "d"})
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Empty(t, CommonSheets([]string{"x"}, []string{"y"}))
}

func TestCompare_SpaceOnlyDifference(t *testing.T) {
	v1 := testkit.NewWorkbook("v1.xlsx", testkit.NewGrid("Sheet1", []any{"Name", "Status"}, []any{"Alice", "O K"}))
	v2 := testkit.NewWorkbook("v2.xlsx", testkit.NewGrid("Sheet1", []any{"Name", "Status"}, []any{"Alice", "OK"}))

	result, err := NewComparisonService(nil, nil).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)

	assert.Zero(t, result.TotalMismatches)
	assert.False(t, result.Differing)
	assert.Equal(t, run.StatusSame, result.Status)
	assert.Empty(t, result.Sheets)
	assert.Equal(t, []string{"Sheet1"}, result.CommonSheets)
}

func TestCompare_NoCommonSheets(t *testing.T) {
	v1 := testkit.NewWorkbook("v1.xlsx", testkit.NewGrid("A", []any{"x"}))
	v2 := testkit.NewWorkbook("v2.xlsx", testkit.NewGrid("B", []any{"y"}))
	rec := &diff.Recorder{}

	result, err := NewComparisonService(nil, rec).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)

	assert.True(t, result.NoCommonSheets)
	assert.Zero(t, result.TotalMismatches)
	assert.False(t, result.Differing)
	assert.Equal(t, run.StatusDiffering, result.Status)
	assert.Len(t, rec.Named(diff.EventNoCommonSheets), 1)
}

func TestCompare_HiddenSheetsIgnored(t *testing.T) {
	v1 := testkit.NewWorkbook("v1.xlsx",
		testkit.NewGrid("Visible", []any{"same"}),
		testkit.NewGrid("Secret", []any{"a"}),
	).Hide("Secret")
	v2 := testkit.NewWorkbook("v2.xlsx",
		testkit.NewGrid("Secret", []any{"b"}),
		testkit.NewGrid("Visible", []any{"same"}),
	)

	result, err := NewComparisonService(nil, nil).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)

	assert.Equal(t, []string{"Visible"}, result.CommonSheets)
	assert.Zero(t, result.TotalMismatches)
}

func TestCompare_LabelKeyedRowsFollowLabels(t *testing.T) {
	g1 := testkit.NewGrid("events")
	g1.SetRow(1, "行事", "日付", "場所")
	g1.SetRow(2, "入学式", "2024/04/08", "体育館")
	g1.SetRow(10, "遠足", "2024/05/01", "公園")

	g2 := testkit.NewGrid("events")
	g2.SetRow(1, "行事", "日付", "場所")
	g2.SetRow(2, "入学式", "2024-04-08 00:00:00", "体育館")
	g2.SetRow(3, "合計", nil, nil)
	g2.SetRow(15, "遠足", "2024/05/01", "海岸")

	v1 := testkit.NewWorkbook("v1.xlsx", g1)
	v2 := testkit.NewWorkbook("v2.xlsx", g2)

	result, err := NewComparisonService(eventsRegistry(t), nil).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalMismatches)
	assert.True(t, result.Differing)
	assert.Equal(t, run.StatusDiffering, result.Status)
	require.Len(t, result.Sheets, 1)

	m := result.Sheets[0].Mismatches[0]
	assert.Equal(t, 10, m.Row1)
	assert.Equal(t, 15, m.Row2)
	assert.Equal(t, 3, m.Col2)
	assert.Equal(t, diff.CategoryPlain, m.Category)
	assert.Equal(t, []testkit.Mark{{Sheet: "events", Row: 15, Col: 3, Category: diff.CategoryPlain}}, v2.Marks)
}

func TestCompare_LabelExtractionFailureSkipsSheet(t *testing.T) {
	broken := testkit.NewGrid("events", []any{"head"}, []any{"a", "x"})
	broken.FailAt(2, 1, errors.New("bad record"))

	v1 := testkit.NewWorkbook("v1.xlsx", broken, testkit.NewGrid("Other", []any{"1"}))
	v2 := testkit.NewWorkbook("v2.xlsx",
		testkit.NewGrid("events", []any{"head"}, []any{"a", "y"}),
		testkit.NewGrid("Other", []any{"2"}),
	)
	rec := &diff.Recorder{}

	result, err := NewComparisonService(eventsRegistry(t), rec).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "events", result.Skipped[0].Sheet)
	assert.Equal(t, 1, result.TotalMismatches)
	assert.Len(t, rec.Named(diff.EventSheetSkipped), 1)

	skipped := rec.Named(diff.EventSheetSkipped)[0].(diff.SheetSkipped)
	assert.True(t, core.IsStructuralError(skipped.Err))
}

func TestCompare_SheetOpenFailureSkipsSheet(t *testing.T) {
	v1 := testkit.NewWorkbook("v1.xlsx", testkit.NewGrid("S", []any{"1"}))
	v2 := testkit.NewWorkbook("v2.xlsx", testkit.NewGrid("S", []any{"1"})).FailSheet("S", errors.New("corrupt part"))

	result, err := NewComparisonService(nil, nil).Compare(context.Background(), v1, v2, v2)
	require.NoError(t, err)
	assert.Len(t, result.Skipped, 1)
	assert.Zero(t, result.TotalMismatches)
}

func TestCompare_CancelledContext(t *testing.T) {
	v1 := testkit.NewWorkbook("v1.xlsx", testkit.NewGrid("S", []any{"1"}))
	v2 := testkit.NewWorkbook("v2.xlsx", testkit.NewGrid("S", []any{"2"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewComparisonService(nil, nil).Compare(ctx, v1, v2, v2)
	assert.ErrorIs(t, err, context.Canceled)
}
