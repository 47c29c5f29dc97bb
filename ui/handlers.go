package ui

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sheetdiff/adapters/report"
	"sheetdiff/domain/core"
	"sheetdiff/domain/run"
	"sheetdiff/ports"
)

const indexLimit = 100

type indexPage struct {
	Runs  []ports.RunSummary
	Limit int
}

type runPage struct {
	Record *run.Record
	Report template.HTML
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	limit := indexLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}

	runs, err := a.runs.List(r.Context(), limit)
	if err != nil {
		a.logger.Error("[UI] Failed to list runs: %v", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "index.html", indexPage{Runs: runs, Limit: limit})
}

func (a *App) handleRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid run ID", http.StatusBadRequest)
		return
	}

	record, err := a.runs.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.NotFound(w, r)
			return
		}
		a.logger.Error("[UI] Failed to load run %s: %v", id, err)
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	// ToHTML drops raw HTML from the markdown, so cell text cannot inject markup.
	md := report.NewMarkdown().Render(record)
	a.renderTemplate(w, "run.html", runPage{
		Record: record,
		Report: template.HTML(report.ToHTML(md)),
	})
}
