package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetdiff/domain/run"
)

func cellValue(t *testing.T, f *excelize.File, sheetName, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheetName, cell)
	require.NoError(t, err)
	return v
}

func TestXLSX_Build(t *testing.T) {
	f, err := NewXLSX().Build(fixtureRecord())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "school-a"}, f.GetSheetList())

	assert.Equal(t, "Group ID", cellValue(t, f, "Summary", "A1"))
	assert.Equal(t, "Mismatch Count", cellValue(t, f, "Summary", "B1"))
	assert.Equal(t, "school-a", cellValue(t, f, "Summary", "A2"))
	assert.Equal(t, "3", cellValue(t, f, "Summary", "B2"))
	assert.Equal(t, "NG", cellValue(t, f, "Summary", "C2"))
	assert.Equal(t, "1", cellValue(t, f, "Summary", "D2"))
	assert.Equal(t, "OK", cellValue(t, f, "Summary", "C3"))
	assert.Equal(t, "Statistics", cellValue(t, f, "Summary", "A5"))

	styleID, err := f.GetCellStyle("Summary", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)

	const g = "school-a"
	assert.Equal(t, "Workbook: 会計.xlsx", cellValue(t, f, g, "A1"))
	assert.Equal(t, "Sheet Name", cellValue(t, f, g, "A3"))
	assert.Equal(t, "会計簿", cellValue(t, f, g, "A4"))
	assert.Equal(t, "3", cellValue(t, f, g, "B4"))
	assert.Equal(t, "10", cellValue(t, f, g, "C4"))
	assert.Equal(t, "100", cellValue(t, f, g, "E4"))
	assert.Equal(t, "120", cellValue(t, f, g, "H4"))
	assert.Equal(t, "", cellValue(t, f, g, "A5"))
	assert.Equal(t, "-", cellValue(t, f, g, "C5"))
	assert.Equal(t, "雑費", cellValue(t, f, g, "H5"))
	assert.Equal(t, "12", cellValue(t, f, g, "F6"))
	assert.Equal(t, "read error: bad cell", cellValue(t, f, g, "H6"))
	assert.Equal(t, "Not compared: 名簿.xlsx", cellValue(t, f, g, "A10"))

	width, err := f.GetColWidth(g, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(displayWidth("Not compared: 名簿.xlsx")+2), width)
}

func TestXLSX_NoGroups(t *testing.T) {
	record := fixtureRecord()
	record.Groups = nil

	f, err := NewXLSX().Build(record)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "No mismatches found", cellValue(t, f, "Summary", "A2"))
	merged, err := f.GetMergeCells("Summary")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A2", merged[0].GetStartAxis())
	assert.Equal(t, "D2", merged[0].GetEndAxis())
}

func TestXLSX_Write(t *testing.T) {
	path, err := NewXLSX().Write(context.Background(), fixtureRecord(), t.TempDir())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "20240501_093000_comparison_report.xlsx"))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "school-a", cellValue(t, f, "Summary", "A2"))
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"summary": true}

	assert.Equal(t, "a_b_c_d", sheetName("a/b:c?d", used))
	assert.Equal(t, "Summary(2)", sheetName("Summary", used))

	long := strings.Repeat("学", 40)
	first := sheetName(long, used)
	assert.Equal(t, strings.Repeat("学", 31), first)
	second := sheetName(long, used)
	assert.Equal(t, strings.Repeat("学", 28)+"(2)", second)
}

func TestSheetName_CaseInsensitive(t *testing.T) {
	used := map[string]bool{"summary": true}

	assert.Equal(t, "summary(2)", sheetName("summary", used))
	assert.Equal(t, "school-a", sheetName("school-a", used))
	assert.Equal(t, "SCHOOL-A(2)", sheetName("SCHOOL-A", used))
}

func TestXLSX_GroupNamesDifferingOnlyInCase(t *testing.T) {
	record := fixtureRecord()
	detailed := record.Groups[0]
	record.Groups = []*run.GroupResult{
		{Name: "school-a", Pairs: detailed.Pairs},
		{Name: "SCHOOL-A", Pairs: detailed.Pairs},
		{Name: "summary", Pairs: detailed.Pairs},
	}

	f, err := NewXLSX().Build(record)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "school-a", "SCHOOL-A(2)", "summary(2)"}, f.GetSheetList())
	assert.Equal(t, "Group ID", cellValue(t, f, "Summary", "A1"))
	assert.Equal(t, "summary", cellValue(t, f, "Summary", "A4"))
	for _, name := range []string{"school-a", "SCHOOL-A(2)", "summary(2)"} {
		assert.Equal(t, "Workbook: 会計.xlsx", cellValue(t, f, name, "A1"), name)
	}
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 6, displayWidth("会計ab"))
	assert.Equal(t, 4, displayWidth("ＡＢ"))
	assert.Equal(t, 3, displayWidth("abc"))
}
