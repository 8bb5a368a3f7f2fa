// Package http assembles the gin engine from handlers, middleware, and routes.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krona/internal/infrastructure/config"
	"krona/internal/interfaces/http/handlers"
	"krona/internal/interfaces/http/middleware"
	"krona/internal/interfaces/http/routes"
	"krona/internal/shared/constants"
	"krona/internal/shared/logger"
)

// Handlers bundles the HTTP handlers wired by the server command.
type Handlers struct {
	Plan        *handlers.PlanHandler
	Merchant    *handlers.MerchantHandler
	Assignment  *handlers.AssignmentHandler
	Transaction *handlers.TransactionHandler
	Job         *handlers.JobHandler
}

// Router represents the HTTP router configuration
type Router struct {
	engine   *gin.Engine
	handlers Handlers
	logger   logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(h Handlers, cfg *config.Config, log logger.Interface) *Router {
	if cfg.Server.Mode == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Router{
		engine:   gin.New(),
		handlers: h,
		logger:   log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupPlanRoutes(r.engine, &routes.PlanRouteConfig{
		PlanHandler: r.handlers.Plan,
	})
	routes.SetupMerchantRoutes(r.engine, &routes.MerchantRouteConfig{
		MerchantHandler: r.handlers.Merchant,
	})
	routes.SetupAssignmentRoutes(r.engine, &routes.AssignmentRouteConfig{
		AssignmentHandler: r.handlers.Assignment,
	})
	routes.SetupTransactionRoutes(r.engine, &routes.TransactionRouteConfig{
		TransactionHandler: r.handlers.Transaction,
	})
	routes.SetupJobRoutes(r.engine, &routes.JobRouteConfig{
		JobHandler: r.handlers.Job,
	})
}

// Engine exposes the underlying gin engine for the HTTP server.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
