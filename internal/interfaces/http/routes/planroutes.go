package routes

import (
	"github.com/gin-gonic/gin"

	"krona/internal/interfaces/http/handlers"
)

// PlanRouteConfig holds dependencies for plan routes.
type PlanRouteConfig struct {
	PlanHandler *handlers.PlanHandler
}

// SetupPlanRoutes configures plan routes.
func SetupPlanRoutes(engine *gin.Engine, cfg *PlanRouteConfig) {
	plans := engine.Group("/plans")
	{
		plans.GET("", cfg.PlanHandler.ListPlans)
		plans.GET("/:id", cfg.PlanHandler.GetPlan)
		plans.GET("/:id/members", cfg.PlanHandler.ListPlanMembers)

		plans.POST("", cfg.PlanHandler.CreatePlan)
		plans.PUT("/:id", cfg.PlanHandler.UpdatePlan)
		plans.PATCH("/:id/status", cfg.PlanHandler.UpdatePlanStatus)
		plans.DELETE("/:id", cfg.PlanHandler.DeletePlan)
	}
}
