package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetdiff/internal"
	"sheetdiff/ports"
)

// NewRouter builds the JSON API. Routes are relative so the engine can be
// mounted under a prefix.
func NewRouter(runs ports.RunRepository, logger *internal.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler := NewRunsHandler(runs, logger)
	router.GET("/runs", handler.ListRuns)
	router.GET("/runs/:id", handler.GetRun)
	router.GET("/runs/:id/report", handler.GetRunReport)

	return router
}
