package routes

import (
	"github.com/gin-gonic/gin"

	"krona/internal/interfaces/http/handlers"
)

// TransactionRouteConfig holds dependencies for billing transaction routes.
type TransactionRouteConfig struct {
	TransactionHandler *handlers.TransactionHandler
}

// SetupTransactionRoutes configures billing transaction routes.
func SetupTransactionRoutes(engine *gin.Engine, cfg *TransactionRouteConfig) {
	transactions := engine.Group("/transactions")
	{
		transactions.POST("", cfg.TransactionHandler.CreateTransaction)
		transactions.GET("", cfg.TransactionHandler.ListTransactions)

		// :reference accepts the ledger reference or the transaction SID.
		transactions.PATCH("/:reference/status", cfg.TransactionHandler.UpdateTransactionStatus)
		transactions.POST("/:reference/verify", cfg.TransactionHandler.VerifyPayment)
	}
}
