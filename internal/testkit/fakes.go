package testkit

import (
	"context"
	"fmt"
	"path/filepath"

	"sheetdiff/domain/run"
)

// Recalculator records calls and hands back the source path
type Recalculator struct {
	Calls []string
	Err   error
}

// Mode implements ports.Recalculator
func (r *Recalculator) Mode() string { return "test" }

// Recalculate implements ports.Recalculator
func (r *Recalculator) Recalculate(ctx context.Context, src, workDir string) (string, error) {
	r.Calls = append(r.Calls, src)
	if r.Err != nil {
		return "", r.Err
	}
	return src, nil
}

// ReportWriter records the runs it was asked to render
type ReportWriter struct {
	Name    string
	Written []*run.Record
	Err     error
}

// Format implements ports.ReportWriter
func (w *ReportWriter) Format() string { return w.Name }

// Write implements ports.ReportWriter
func (w *ReportWriter) Write(ctx context.Context, record *run.Record, dir string) (string, error) {
	if w.Err != nil {
		return "", w.Err
	}
	w.Written = append(w.Written, record)
	return filepath.Join(dir, fmt.Sprintf("%s_report.%s", record.StartedAt.FileStamp(), w.Name)), nil
}
