package report

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"sheetdiff/domain/diff"
	"sheetdiff/domain/run"
	"sheetdiff/domain/sheet"
	"sheetdiff/internal/errors"
)

const (
	summarySheet      = "Summary"
	maxSheetNameChars = 31
	maxColumnWidth    = 255
)

var summaryHeader = []string{"Group ID", "Mismatch Count", "Status", "Files"}

var invalidSheetChars = regexp.MustCompile(`[\\/:*?"<>|\[\]]`)

// XLSX renders the run as a workbook: a Summary sheet with one row per
// group, and one detail sheet per group that has mismatches or failures.
type XLSX struct{}

// NewXLSX creates an xlsx report writer
func NewXLSX() *XLSX {
	return &XLSX{}
}

// Format implements ports.ReportWriter
func (x *XLSX) Format() string { return "xlsx" }

// Write implements ports.ReportWriter
func (x *XLSX) Write(ctx context.Context, record *run.Record, dir string) (string, error) {
	f, err := x.Build(record)
	if err != nil {
		return "", errors.ReportFailed(x.Format(), err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", errors.ReportFailed(x.Format(), err)
	}
	return writeFile(ctx, x.Format(), dir, fileName(record, "xlsx"), buf.Bytes())
}

// Build lays out the report workbook. The caller closes it.
func (x *XLSX) Build(record *run.Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	styles, err := newReportStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	summary := newSheetWriter(f, summarySheet, styles)
	summary.header(summaryHeader)
	if len(record.Groups) == 0 {
		summary.set(1, "No mismatches found", 0)
		summary.merge(1, 4)
		summary.next()
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, g := range record.Groups {
		summary.set(1, g.Name, 0)
		summary.set(2, g.TotalMismatches(), 0)
		summary.set(3, string(g.Status()), 0)
		summary.set(4, len(g.ReportedPairs()), 0)
		summary.next()

		if !hasDetail(g) {
			continue
		}
		name := sheetName(g.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
		detail := newSheetWriter(f, name, styles)
		writeGroupDetail(detail, g)
		if err := detail.finish(); err != nil {
			f.Close()
			return nil, err
		}
	}

	summary.next()
	writeStatistics(summary, record.Summary)
	if err := summary.finish(); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func hasDetail(g *run.GroupResult) bool {
	for _, p := range g.Pairs {
		if len(p.Sheets) > 0 || p.Failed() {
			return true
		}
	}
	return false
}

func writeGroupDetail(w *sheetWriter, g *run.GroupResult) {
	for _, p := range g.ReportedPairs() {
		w.set(1, "Workbook: "+filepath.Base(p.V2Path), w.styles.bold)
		w.next()
		w.next()
		w.header(detailHeader)

		for _, s := range p.Sheets {
			if s.MismatchCount == 0 {
				w.set(1, s.Sheet, 0)
				w.set(2, 0, 0)
				w.set(3, "-", 0)
				w.set(5, "No mismatches", 0)
				w.next()
				continue
			}
			first := true
			lead := func() {
				if first {
					w.set(1, s.Sheet, 0)
					w.set(2, s.MismatchCount, 0)
					first = false
				}
			}
			for _, m := range s.Mismatches {
				lead()
				w.setPosition(3, m.Row1)
				w.setPosition(4, m.Col1)
				w.setValue(5, m.Val1)
				w.setPosition(6, m.Row2)
				w.setPosition(7, m.Col2)
				w.setValue(8, m.Val2)
				w.next()
			}
			for _, fl := range s.Failures {
				if fl.Side == diff.SideAnnotate {
					continue
				}
				lead()
				col := 3
				if fl.Side == diff.SideV2 {
					col = 6
				}
				w.setPosition(col, fl.Row)
				w.setPosition(col+1, fl.Col)
				w.set(col+2, "read error: "+fl.Message, 0)
				w.next()
			}
		}
		w.skip(3)
	}

	for _, p := range g.Pairs {
		if !p.Failed() {
			continue
		}
		w.set(1, "Not compared: "+filepath.Base(p.V1Path), w.styles.bold)
		w.set(2, p.Error, 0)
		w.next()
	}
}

func writeStatistics(w *sheetWriter, s run.Summary) {
	w.set(1, "Statistics", w.styles.bold)
	w.next()
	rows := []struct {
		label string
		value any
	}{
		{"Pairs", s.Pairs},
		{"Differing pairs", s.DifferingPairs},
		{"Failed pairs", s.FailedPairs},
		{"Total mismatches", s.TotalMismatches},
		{"Mean mismatches", s.MeanMismatches},
		{"Median mismatches", s.MedianMismatches},
		{"P90 mismatches", s.P90Mismatches},
		{"Max mismatches", s.MaxMismatches},
		{"Std dev mismatches", s.StdDevMismatches},
	}
	for _, r := range rows {
		w.set(1, r.label, 0)
		w.set(2, r.value, 0)
		w.next()
	}
}

// sheetName sanitizes a group name into a unique worksheet name. Worksheet
// names are case-insensitive, so used is keyed by the lowercased name.
func sheetName(group string, used map[string]bool) string {
	base := truncateChars(invalidSheetChars.ReplaceAllString(group, "_"), maxSheetNameChars)
	if base == "" {
		base = "_"
	}
	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("(%d)", i)
		name = truncateChars(base, maxSheetNameChars-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// displayWidth counts wide and full-width characters as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

type reportStyles struct {
	bold   int
	header int
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return reportStyles{}, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return reportStyles{}, err
	}
	return reportStyles{bold: bold, header: header}, nil
}

// sheetWriter fills one worksheet row by row, tracking column widths. The
// first error sticks and is returned by finish.
type sheetWriter struct {
	f      *excelize.File
	name   string
	styles reportStyles
	row    int
	widths map[int]int
	err    error
}

func newSheetWriter(f *excelize.File, name string, styles reportStyles) *sheetWriter {
	return &sheetWriter{f: f, name: name, styles: styles, row: 1, widths: make(map[int]int)}
}

func (w *sheetWriter) next() { w.row++ }

func (w *sheetWriter) skip(n int) { w.row += n }

func (w *sheetWriter) header(cells []string) {
	for i, h := range cells {
		w.set(i+1, h, w.styles.header)
	}
	w.next()
}

func (w *sheetWriter) set(col int, v any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.name, cell, v); err != nil {
		w.err = err
		return
	}
	if style != 0 {
		if err := w.f.SetCellStyle(w.name, cell, cell, style); err != nil {
			w.err = err
			return
		}
	}
	w.widths[col] = max(w.widths[col], displayWidth(fmt.Sprint(v)))
}

func (w *sheetWriter) setPosition(col, n int) {
	if n == 0 {
		w.set(col, "-", 0)
		return
	}
	w.set(col, n, 0)
}

// setValue writes a raw cell value with its own type, so numbers and dates
// stay numbers and dates in the report.
func (w *sheetWriter) setValue(col int, v sheet.Value) {
	switch v.Kind {
	case sheet.KindNumber:
		w.set(col, v.Number, 0)
	case sheet.KindDateTime:
		w.set(col, v.Time, 0)
		w.widths[col] = max(w.widths[col], len(v.String()))
	case sheet.KindBool:
		w.set(col, v.Bool, 0)
	case sheet.KindEmpty:
		return
	default:
		w.set(col, v.Text, 0)
	}
}

func (w *sheetWriter) merge(fromCol, toCol int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, w.row)
	to, _ := excelize.CoordinatesToCellName(toCol, w.row)
	w.err = w.f.MergeCell(w.name, from, to)
}

func (w *sheetWriter) finish() error {
	if w.err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", w.name, w.err)
	}
	for col, n := range w.widths {
		letter, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(w.name, letter, letter, float64(min(n+2, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}
