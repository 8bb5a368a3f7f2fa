package routes

import (
	"github.com/gin-gonic/gin"

	"krona/internal/interfaces/http/handlers"
)

// JobRouteConfig holds dependencies for maintenance job routes.
type JobRouteConfig struct {
	JobHandler *handlers.JobHandler
}

// SetupJobRoutes configures the manual triggers for scheduled jobs.
func SetupJobRoutes(engine *gin.Engine, cfg *JobRouteConfig) {
	jobs := engine.Group("/admin/jobs")
	{
		jobs.GET("", cfg.JobHandler.ListJobs)
		jobs.POST("/:name/run", cfg.JobHandler.RunJob)
	}
}
