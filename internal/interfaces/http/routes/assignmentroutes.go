package routes

import (
	"github.com/gin-gonic/gin"

	"krona/internal/interfaces/http/handlers"
)

// AssignmentRouteConfig holds dependencies for plan assignment routes.
type AssignmentRouteConfig struct {
	AssignmentHandler *handlers.AssignmentHandler
}

// SetupAssignmentRoutes configures plan assignment routes.
func SetupAssignmentRoutes(engine *gin.Engine, cfg *AssignmentRouteConfig) {
	assignments := engine.Group("/assignments")
	{
		assignments.POST("", cfg.AssignmentHandler.AssignPlan)
		assignments.POST("/:id/apply", cfg.AssignmentHandler.ApplyAssignment)
	}
}
