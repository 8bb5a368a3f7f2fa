package routes

import (
	"github.com/gin-gonic/gin"

	"krona/internal/interfaces/http/handlers"
)

// MerchantRouteConfig holds dependencies for merchant routes.
type MerchantRouteConfig struct {
	MerchantHandler *handlers.MerchantHandler
}

// SetupMerchantRoutes configures merchant routes.
func SetupMerchantRoutes(engine *gin.Engine, cfg *MerchantRouteConfig) {
	merchants := engine.Group("/merchants")
	{
		merchants.POST("", cfg.MerchantHandler.CreateMerchant)
		merchants.GET("", cfg.MerchantHandler.ListMerchants)
		merchants.GET("/:id", cfg.MerchantHandler.GetMerchant)

		// Effective subscription, synthesized for merchants without a paid row.
		merchants.GET("/:id/subscription", cfg.MerchantHandler.GetSubscription)
		merchants.GET("/:id/trial-status", cfg.MerchantHandler.GetTrialStatus)
	}
}
