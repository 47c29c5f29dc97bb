package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sheetdiff/adapters/report"
	"sheetdiff/domain/core"
	"sheetdiff/internal"
	"sheetdiff/internal/errors"
	"sheetdiff/ports"
)

const defaultListLimit = 50

// RunsHandler serves stored comparison runs
type RunsHandler struct {
	runs     ports.RunRepository
	markdown *report.Markdown
	logger   *internal.Logger
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(runs ports.RunRepository, logger *internal.Logger) *RunsHandler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &RunsHandler{
		runs:     runs,
		markdown: report.NewMarkdown(),
		logger:   logger,
	}
}

// ListRuns returns run summaries, newest first
func (h *RunsHandler) ListRuns(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("[API] Failed to list runs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun returns the full record of one run
func (h *RunsHandler) GetRun(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	record, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetRunReport renders the markdown report of one run
func (h *RunsHandler) GetRunReport(c *gin.Context) {
	id, ok := h.runID(c)
	if !ok {
		return
	}

	record, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, id, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", h.markdown.Render(record))
}

func (h *RunsHandler) runID(c *gin.Context) (core.RunID, bool) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		h.fail(c, id, errors.InvalidInput("Invalid run ID", err))
		return "", false
	}
	return id, true
}

// fail maps the error code to a status. Only unexpected failures are logged.
func (h *RunsHandler) fail(c *gin.Context, id core.RunID, err error) {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
	case errors.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
	default:
		h.logger.Error("[API] Failed to load run %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load run"})
	}
}
