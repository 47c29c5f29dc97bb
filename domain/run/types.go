// Package run holds the results of comparison runs: one workbook pair, one
// batch group, and a whole batch.
package run

import (
	"sheetdiff/domain/core"
	"sheetdiff/domain/diff"
)

// Status classifies a workbook pair
type Status string

const (
	StatusSame      Status = "O"
	StatusDiffering Status = "X"
)

// StatusFor returns the status of a pair with total mismatches
func StatusFor(total int) Status {
	if total > 0 {
		return StatusDiffering
	}
	return StatusSame
}

// GroupStatus classifies a batch group
type GroupStatus string

const (
	GroupOK GroupStatus = "OK"
	GroupNG GroupStatus = "NG"
)

// SkippedSheet is a common sheet that could not be compared
type SkippedSheet struct {
	Sheet  string `json:"sheet"`
	Reason string `json:"reason"`
}

// PairResult is the outcome of comparing one V1 workbook with its V2
// counterpart.
type PairResult struct {
	ID         core.PairID `json:"id"`
	Group      string      `json:"group,omitempty"`
	Base       string      `json:"base"`
	V1Path     string      `json:"v1_path"`
	V2Path     string      `json:"v2_path"`
	ResultPath string      `json:"result_path,omitempty"`
	// V1Hash and V2Hash fingerprint the compared input files.
	V1Hash core.Hash `json:"v1_hash,omitempty"`
	V2Hash core.Hash `json:"v2_hash,omitempty"`

	CommonSheets []string `json:"common_sheets"`
	// Sheets holds only sheets with at least one mismatch, in V1 order.
	Sheets  []*diff.SheetReport `json:"sheets"`
	Skipped []SkippedSheet      `json:"skipped,omitempty"`

	TotalMismatches int    `json:"total_mismatches"`
	Differing       bool   `json:"differing"`
	NoCommonSheets  bool   `json:"no_common_sheets"`
	Status          Status `json:"status"`

	// Error is set when the pair could not be compared at all.
	Error string `json:"error,omitempty"`
	// SaveError is set when the annotated result file could not be written.
	SaveError string `json:"save_error,omitempty"`
}

// NewPairResult creates an empty result for a pair
func NewPairResult(v1Path, v2Path string) *PairResult {
	return &PairResult{
		ID:     core.NewPairID(),
		V1Path: v1Path,
		V2Path: v2Path,
		Status: StatusSame,
	}
}

// AddSheet folds a sheet report into the pair totals. Sheets without
// mismatches are counted but not kept.
func (p *PairResult) AddSheet(r *diff.SheetReport) {
	p.TotalMismatches += r.MismatchCount
	if r.HasMismatches() {
		p.Sheets = append(p.Sheets, r)
	}
	p.classify()
}

// Skip records a sheet that could not be compared
func (p *PairResult) Skip(sheetName string, err error) {
	p.Skipped = append(p.Skipped, SkippedSheet{Sheet: sheetName, Reason: err.Error()})
}

// Fail marks the pair as not compared
func (p *PairResult) Fail(err error) {
	p.Error = err.Error()
}

// Failed reports whether the pair could not be compared
func (p *PairResult) Failed() bool { return p.Error != "" }

func (p *PairResult) classify() {
	p.Differing = p.TotalMismatches > 0
	p.Status = StatusFor(p.TotalMismatches)
}

// GroupResult is one batch subfolder
type GroupResult struct {
	Name  string        `json:"name"`
	Pairs []*PairResult `json:"pairs"`
	// Warnings are group-level problems such as a V1 file without a V2
	// counterpart.
	Warnings []string `json:"warnings,omitempty"`
}

// TotalMismatches sums the pair totals
func (g *GroupResult) TotalMismatches() int {
	total := 0
	for _, p := range g.Pairs {
		total += p.TotalMismatches
	}
	return total
}

// Status is OK when no pair differs
func (g *GroupResult) Status() GroupStatus {
	if g.TotalMismatches() > 0 {
		return GroupNG
	}
	return GroupOK
}

// ReportedPairs returns pairs that have sheet reports
func (g *GroupResult) ReportedPairs() []*PairResult {
	var out []*PairResult
	for _, p := range g.Pairs {
		if len(p.Sheets) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Summary is descriptive statistics over per-pair mismatch totals
type Summary struct {
	Groups           int     `json:"groups"`
	Pairs            int     `json:"pairs"`
	DifferingPairs   int     `json:"differing_pairs"`
	FailedPairs      int     `json:"failed_pairs"`
	TotalMismatches  int     `json:"total_mismatches"`
	MeanMismatches   float64 `json:"mean_mismatches"`
	MedianMismatches float64 `json:"median_mismatches"`
	MaxMismatches    float64 `json:"max_mismatches"`
	P90Mismatches    float64 `json:"p90_mismatches"`
	StdDevMismatches float64 `json:"stddev_mismatches"`
}

// Record is a complete batch run, as persisted and reported.
type Record struct {
	ID         core.RunID     `json:"id"`
	Root       string         `json:"root"`
	StartedAt  core.Timestamp `json:"started_at"`
	FinishedAt core.Timestamp `json:"finished_at"`
	Manifest   Manifest       `json:"manifest"`
	Groups     []*GroupResult `json:"groups"`
	Summary    Summary        `json:"summary"`
	// ReportPaths maps report format to written file.
	ReportPaths map[string]string `json:"report_paths,omitempty"`
}

// Pairs returns every pair of every group
func (r *Record) Pairs() []*PairResult {
	var out []*PairResult
	for _, g := range r.Groups {
		out = append(out, g.Pairs...)
	}
	return out
}

// TotalMismatches sums all groups
func (r *Record) TotalMismatches() int {
	total := 0
	for _, g := range r.Groups {
		total += g.TotalMismatches()
	}
	return total
}
