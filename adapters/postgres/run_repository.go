package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

// RunRepository implements ports.RunRepository for PostgreSQL. Summary
// columns serve the list view; the full record is a JSONB payload.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// runRow is the list view of a comparison_runs row
type runRow struct {
	ID              string    `db:"id"`
	Root            string    `db:"root"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
	Groups          int       `db:"group_count"`
	Pairs           int       `db:"pair_count"`
	DifferingPairs  int       `db:"differing_pairs"`
	TotalMismatches int       `db:"total_mismatches"`
}

func (r runRow) summary() ports.RunSummary {
	return ports.RunSummary{
		ID:              core.RunID(r.ID),
		Root:            r.Root,
		StartedAt:       core.NewTimestamp(r.StartedAt),
		FinishedAt:      core.NewTimestamp(r.FinishedAt),
		Groups:          r.Groups,
		Pairs:           r.Pairs,
		DifferingPairs:  r.DifferingPairs,
		TotalMismatches: r.TotalMismatches,
	}
}

// Save implements ports.RunRepository. Saving the same id again replaces it.
func (r *RunRepository) Save(ctx context.Context, record *run.Record) error {
	if core.ID(record.ID).IsEmpty() {
		return errors.ValidationError("invalid run", core.NewValidationError("run", "id cannot be empty"))
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to encode run")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO comparison_runs (id, root, started_at, finished_at, group_count, pair_count, differing_pairs, total_mismatches, fingerprint, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			group_count = EXCLUDED.group_count,
			pair_count = EXCLUDED.pair_count,
			differing_pairs = EXCLUDED.differing_pairs,
			total_mismatches = EXCLUDED.total_mismatches,
			fingerprint = EXCLUDED.fingerprint,
			payload = EXCLUDED.payload
	`, record.ID.String(), record.Root, record.StartedAt.Time(), record.FinishedAt.Time(),
		record.Summary.Groups, record.Summary.Pairs, record.Summary.DifferingPairs, record.Summary.TotalMismatches,
		record.Manifest.Fingerprint.String(), payload)
	if err != nil {
		return errors.DatabaseError("failed to save run", err)
	}
	return nil
}

// Get implements ports.RunRepository
func (r *RunRepository) Get(ctx context.Context, id core.RunID) (*run.Record, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM comparison_runs WHERE id = $1`, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("run", core.NewNotFoundError("run", id.String()))
		}
		return nil, errors.DatabaseError("failed to load run", err)
	}

	var record run.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, errors.Wrapf(err, "failed to decode run %s", id)
	}
	return &record, nil
}

// List implements ports.RunRepository
func (r *RunRepository) List(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	query := `
		SELECT id, root, started_at, finished_at, group_count, pair_count, differing_pairs, total_mismatches
		FROM comparison_runs
		ORDER BY started_at DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list runs", err)
	}

	summaries := make([]ports.RunSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.summary())
	}
	return summaries, nil
}
