// Package report renders finished runs as markdown, HTML and xlsx files.
package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sheetdiff/domain/diff"
	"sheetdiff/domain/run"
	"sheetdiff/domain/sheet"
	"sheetdiff/internal/errors"
)

const generatedLayout = "2006-01-02 15:04:05"

var detailHeader = []string{"Sheet Name", "Count", "V1 Row", "V1 Col", "V1 Value", "V2 Row", "V2 Col", "V2 Value"}

var finalHeader = []string{"Group ID", "Mismatch", "Status", "Files"}

// fileName is shared by all formats so one run's reports sort together.
func fileName(record *run.Record, ext string) string {
	return fmt.Sprintf("%s_comparison_report.%s", record.StartedAt.FileStamp(), ext)
}

func writeFile(ctx context.Context, format, dir, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.ReportFailed(format, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.ReportFailed(format, err)
	}
	return path, nil
}

// Markdown renders the run as a markdown document: per group and workbook
// mismatch tables, then a final per-group status table and batch statistics.
type Markdown struct{}

// NewMarkdown creates a markdown report writer
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Format implements ports.ReportWriter
func (m *Markdown) Format() string { return "markdown" }

// Write implements ports.ReportWriter
func (m *Markdown) Write(ctx context.Context, record *run.Record, dir string) (string, error) {
	return writeFile(ctx, m.Format(), dir, fileName(record, "md"), m.Render(record))
}

// Render returns the markdown document for record
func (m *Markdown) Render(record *run.Record) []byte {
	var b bytes.Buffer
	b.WriteString("# Excel Comparison Report\n")
	fmt.Fprintf(&b, "**Generated on:** %s\n\n", record.FinishedAt.Time().Format(generatedLayout))

	if len(record.Groups) == 0 {
		b.WriteString("## No mismatches found\n")
		b.WriteString("No differences were detected during the comparison.\n\n")
	}
	for _, g := range record.Groups {
		writeGroup(&b, g)
	}

	b.WriteString("# Final Result Report\n\n")
	tableRow(&b, finalHeader...)
	tableRule(&b, finalHeader)
	for _, g := range record.Groups {
		tableRow(&b, escape(g.Name), strconv.Itoa(g.TotalMismatches()), string(g.Status()), strconv.Itoa(len(g.ReportedPairs())))
	}

	b.WriteString("\n## Statistics\n\n")
	writeSummary(&b, record.Summary)
	return b.Bytes()
}

func writeGroup(b *bytes.Buffer, g *run.GroupResult) {
	fmt.Fprintf(b, "## Group ID: %s\n\n", g.Name)

	for _, p := range g.ReportedPairs() {
		fmt.Fprintf(b, "### Workbook: %s\n\n", filepath.Base(p.V2Path))
		tableRow(b, detailHeader...)
		tableRule(b, detailHeader)
		for _, s := range p.Sheets {
			writeSheet(b, s)
		}
		b.WriteString("\n")
	}

	var failed []*run.PairResult
	for _, p := range g.Pairs {
		if p.Failed() {
			failed = append(failed, p)
		}
	}
	if len(failed) > 0 {
		b.WriteString("**Not compared:**\n\n")
		for _, p := range failed {
			fmt.Fprintf(b, "- %s: %s\n", filepath.Base(p.V1Path), escape(p.Error))
		}
		b.WriteString("\n")
	}
	if len(g.Warnings) > 0 {
		b.WriteString("**Warnings:**\n\n")
		for _, w := range g.Warnings {
			fmt.Fprintf(b, "- %s\n", escape(w))
		}
		b.WriteString("\n")
	}
}

// writeSheet emits one row per mismatch; the sheet name and count appear on
// the first row only. Cells that could not be read get a row of their own.
func writeSheet(b *bytes.Buffer, s *diff.SheetReport) {
	if s.MismatchCount == 0 {
		tableRow(b, escape(s.Sheet), "0", "-", "-", "No mismatches", "-", "-", "-")
		return
	}

	first := true
	lead := func() (string, string) {
		if !first {
			return " ", " "
		}
		first = false
		return escape(s.Sheet), strconv.Itoa(s.MismatchCount)
	}

	for _, mm := range s.Mismatches {
		name, count := lead()
		tableRow(b, name, count,
			position(mm.Row1), position(mm.Col1), value(mm.Val1),
			position(mm.Row2), position(mm.Col2), value(mm.Val2))
	}
	for _, f := range s.Failures {
		if f.Side == diff.SideAnnotate {
			continue
		}
		name, count := lead()
		msg := escape("read error: " + f.Message)
		if f.Side == diff.SideV1 {
			tableRow(b, name, count, position(f.Row), position(f.Col), msg, "-", "-", "-")
		} else {
			tableRow(b, name, count, "-", "-", "-", position(f.Row), position(f.Col), msg)
		}
	}
}

func writeSummary(b *bytes.Buffer, s run.Summary) {
	header := []string{"Pairs", "Differing", "Failed", "Mismatches", "Mean", "Median", "P90", "Max", "Std Dev"}
	tableRow(b, header...)
	tableRule(b, header)
	tableRow(b,
		strconv.Itoa(s.Pairs), strconv.Itoa(s.DifferingPairs), strconv.Itoa(s.FailedPairs),
		strconv.Itoa(s.TotalMismatches), decimal(s.MeanMismatches), decimal(s.MedianMismatches),
		decimal(s.P90Mismatches), decimal(s.MaxMismatches), decimal(s.StdDevMismatches))
}

func tableRow(b *bytes.Buffer, cells ...string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func tableRule(b *bytes.Buffer, header []string) {
	b.WriteString("|")
	for _, h := range header {
		b.WriteString(strings.Repeat("-", len(h)+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
}

// position renders a 1-based coordinate; 0 means the side has no cell.
func position(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func value(v sheet.Value) string {
	return escape(v.String())
}

func decimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ", "<", "&lt;")

// escape keeps cell text from breaking a table row
func escape(s string) string {
	return cellEscaper.Replace(s)
}
