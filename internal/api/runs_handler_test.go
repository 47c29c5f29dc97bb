package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sheetdiff/adapters/memory"
	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingRepository is a RunRepository whose calls are scripted
type failingRepository struct {
	mock.Mock
}

func (m *failingRepository) Save(ctx context.Context, record *run.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *failingRepository) Get(ctx context.Context, id core.RunID) (*run.Record, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*run.Record)
	return record, args.Error(1)
}

func (m *failingRepository) List(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]ports.RunSummary)
	return runs, args.Error(1)
}

func seededRepository(t *testing.T, n int) (*memory.RunRepository, []*run.Record) {
	t.Helper()
	repo := memory.NewRunRepository()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	var records []*run.Record
	for i := 0; i < n; i++ {
		started := base.Add(time.Duration(i) * time.Hour)
		record := &run.Record{
			ID:         core.NewRunID(),
			Root:       fmt.Sprintf("/batch/%d", i),
			StartedAt:  core.NewTimestamp(started),
			FinishedAt: core.NewTimestamp(started.Add(time.Minute)),
			Summary:    run.Summary{Groups: 1, Pairs: i + 1},
		}
		require.NoError(t, repo.Save(context.Background(), record))
		records = append(records, record)
	}
	return repo, records
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListRuns(t *testing.T) {
	repo, records := seededRepository(t, 3)
	router := NewRouter(repo, nil)

	w := serve(router, "/runs?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Runs  []ports.RunSummary `json:"runs"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, records[2].ID, body.Runs[0].ID)
	assert.Equal(t, records[1].ID, body.Runs[1].ID)
}

func TestListRuns_BadLimit(t *testing.T) {
	repo, _ := seededRepository(t, 1)
	w := serve(NewRouter(repo, nil), "/runs?limit=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRuns_RepositoryError(t *testing.T) {
	repo := new(failingRepository)
	repo.On("List", mock.Anything, defaultListLimit).Return(nil, fmt.Errorf("connection refused"))

	w := serve(NewRouter(repo, nil), "/runs")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	repo.AssertExpectations(t)
}

func TestGetRun(t *testing.T) {
	repo, records := seededRepository(t, 1)

	w := serve(NewRouter(repo, nil), "/runs/"+records[0].ID.String())
	require.Equal(t, http.StatusOK, w.Code)

	var got run.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, records[0].ID, got.ID)
	assert.Equal(t, "/batch/0", got.Root)
}

func TestGetRun_InvalidID(t *testing.T) {
	repo, _ := seededRepository(t, 0)
	w := serve(NewRouter(repo, nil), "/runs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid run ID")
}

func TestGetRun_NotFound(t *testing.T) {
	repo, _ := seededRepository(t, 0)
	w := serve(NewRouter(repo, nil), "/runs/"+core.NewRunID().String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_RepositoryError(t *testing.T) {
	repo := new(failingRepository)
	id := core.NewRunID()
	repo.On("Get", mock.Anything, id).Return(nil, fmt.Errorf("timeout"))

	w := serve(NewRouter(repo, nil), "/runs/"+id.String())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	repo.AssertExpectations(t)
}

func TestGetRun_StatusFollowsErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("lookup: %w", errors.NotFound("run", fmt.Errorf("gone"))), http.StatusNotFound},
		{"validation", errors.ValidationError("invalid run", fmt.Errorf("bad id")), http.StatusBadRequest},
		{"database", errors.DatabaseError("failed to load run", fmt.Errorf("connection reset")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(failingRepository)
			id := core.NewRunID()
			repo.On("Get", mock.Anything, id).Return(nil, tt.err)

			w := serve(NewRouter(repo, nil), "/runs/"+id.String()+"/report")
			assert.Equal(t, tt.want, w.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestGetRunReport(t *testing.T) {
	repo, records := seededRepository(t, 1)

	w := serve(NewRouter(repo, nil), "/runs/"+records[0].ID.String()+"/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "# Excel Comparison Report")
	assert.Contains(t, w.Body.String(), "## No mismatches found")
}
