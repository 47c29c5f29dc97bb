package ports

import (
	"context"

	"sheetdiff/domain/run"
)

// ReportWriter renders a finished run into a report file
type ReportWriter interface {
	// Format is the report's short name, e.g. "markdown" or "xlsx".
	Format() string
	// Write renders record into dir and returns the written path.
	Write(ctx context.Context, record *run.Record, dir string) (string, error)
}
