package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moodtrack/core/internal/middleware"
	"github.com/moodtrack/core/internal/modules/analysis"
	"github.com/moodtrack/core/internal/modules/entry"
	"github.com/moodtrack/core/internal/modules/summary"
)

func (a *App) registerRoutes(entryService *entry.Service) {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := a.router.Group("/api", middleware.Auth(a.db))

	entry.NewHandler(entryService).Register(api)
	analysis.NewHandler(a.analysisService).Register(api)
	if a.summaryService != nil {
		summary.NewHandler(a.summaryService).Register(api)
	}

	// "/jobs/tasks" would collide with the :name wildcard, so task records
	// live under their own prefix.
	api.GET("/jobs", a.listJobs)
	api.POST("/jobs/:name/run", a.runJob)
	api.GET("/tasks", a.listTasks)
}
