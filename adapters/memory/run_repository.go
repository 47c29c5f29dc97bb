package memory

import (
	"context"
	"sort"
	"sync"

	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

// RunRepository keeps run records in memory. It is used when no database
// is configured and in tests.
type RunRepository struct {
	runs map[core.RunID]*run.Record
	mu   sync.RWMutex
}

// NewRunRepository creates an empty repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		runs: make(map[core.RunID]*run.Record),
	}
}

// Save implements ports.RunRepository. Saving the same id again replaces it.
func (r *RunRepository) Save(ctx context.Context, record *run.Record) error {
	if core.ID(record.ID).IsEmpty() {
		return errors.ValidationError("invalid run", core.NewValidationError("run", "id cannot be empty"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[record.ID] = record
	return nil
}

// Get implements ports.RunRepository
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*run.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.runs[id]
	if !exists {
		return nil, errors.NotFound("run", core.NewNotFoundError("run", id.String()))
	}
	return record, nil
}

// List implements ports.RunRepository
func (r *RunRepository) List(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]ports.RunSummary, 0, len(r.runs))
	for _, record := range r.runs {
		summaries = append(summaries, ports.SummarizeRecord(record))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[j].StartedAt.Before(summaries[i].StartedAt)
	})

	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}
