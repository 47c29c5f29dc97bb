package ports

import (
	"context"

	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
)

// RunSummary is the list view of a stored run
type RunSummary struct {
	ID              core.RunID     `json:"id"`
	Root            string         `json:"root"`
	StartedAt       core.Timestamp `json:"started_at"`
	FinishedAt      core.Timestamp `json:"finished_at"`
	Groups          int            `json:"groups"`
	Pairs           int            `json:"pairs"`
	DifferingPairs  int            `json:"differing_pairs"`
	TotalMismatches int            `json:"total_mismatches"`
}

// SummarizeRecord builds the list view of a record
func SummarizeRecord(r *run.Record) RunSummary {
	return RunSummary{
		ID:              r.ID,
		Root:            r.Root,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		Groups:          r.Summary.Groups,
		Pairs:           r.Summary.Pairs,
		DifferingPairs:  r.Summary.DifferingPairs,
		TotalMismatches: r.Summary.TotalMismatches,
	}
}

// RunRepository stores batch run records for later viewing
type RunRepository interface {
	Save(ctx context.Context, record *run.Record) error
	Get(ctx context.Context, id core.RunID) (*run.Record, error)
	// List returns the newest runs first, at most limit (0 means no limit).
	List(ctx context.Context, limit int) ([]RunSummary, error)
}
