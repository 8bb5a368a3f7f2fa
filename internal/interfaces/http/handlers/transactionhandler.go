package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	billingusecases "krona/internal/application/billing/usecases"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type TransactionHandler struct {
	createTransactionUC createTransactionUseCase
	updateStatusUC      updateTransactionStatusUseCase
	listTransactionsUC  listTransactionsUseCase
	verifyPaymentUC     verifyPaymentUseCase
	logger              logger.Interface
}

func NewTransactionHandler(
	createTransactionUC createTransactionUseCase,
	updateStatusUC updateTransactionStatusUseCase,
	listTransactionsUC listTransactionsUseCase,
	verifyPaymentUC verifyPaymentUseCase,
) *TransactionHandler {
	return &TransactionHandler{
		createTransactionUC: createTransactionUC,
		updateStatusUC:      updateStatusUC,
		listTransactionsUC:  listTransactionsUC,
		verifyPaymentUC:     verifyPaymentUC,
		logger:              logger.NewLogger(),
	}
}

type CreateTransactionRequest struct {
	MerchantID         string     `json:"merchant_id" binding:"required"`
	PlanID             string     `json:"plan_id" binding:"required"`
	AmountCents        uint64     `json:"amount_cents" binding:"required"`
	Currency           string     `json:"currency" binding:"required,len=3"`
	PaymentReference   string     `json:"payment_reference"`
	PaymentMethod      string     `json:"payment_method"`
	BillingPeriodStart *time.Time `json:"billing_period_start"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end"`
	Notes              string     `json:"notes"`
}

type UpdateTransactionStatusRequest struct {
	Status      string `json:"status" binding:"required,oneof=pending verified failed expired"`
	ProcessedBy string `json:"processed_by" binding:"required"`
	Notes       string `json:"notes"`
}

type VerifyPaymentRequest struct {
	Provider    string `json:"provider" binding:"required"`
	Receiver    string `json:"receiver"`
	ProcessedBy string `json:"processed_by" binding:"required"`
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create transaction", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := billingusecases.CreateTransactionCommand{
		MerchantSID:        req.MerchantID,
		PlanSID:            req.PlanID,
		AmountCents:        req.AmountCents,
		Currency:           req.Currency,
		PaymentReference:   req.PaymentReference,
		PaymentMethod:      req.PaymentMethod,
		BillingPeriodStart: req.BillingPeriodStart,
		BillingPeriodEnd:   req.BillingPeriodEnd,
		Notes:              req.Notes,
	}

	result, err := h.createTransactionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Transaction created successfully")
}

// UpdateTransactionStatus accepts either the ledger reference (TXN-...) or
// the transaction SID (btx_...) in the path.
func (h *TransactionHandler) UpdateTransactionStatus(c *gin.Context) {
	reference := c.Param("reference")

	var req UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update transaction status",
			"reference", reference,
			"error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := billingusecases.UpdateTransactionStatusCommand{
		Reference:   reference,
		Status:      req.Status,
		ProcessedBy: req.ProcessedBy,
		Notes:       req.Notes,
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Transaction status updated successfully", result)
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := billingusecases.ListTransactionsQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_desc") == "true",
	}
	if merchantSID := c.Query("merchant_id"); merchantSID != "" {
		query.MerchantSID = &merchantSID
	}
	if planSID := c.Query("plan_id"); planSID != "" {
		query.PlanSID = &planSID
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	transactions, total, err := h.listTransactionsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, transactions, total, p.Page, p.PageSize)
}

func (h *TransactionHandler) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for verify payment",
			"reference", reference,
			"error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := billingusecases.VerifyPaymentCommand{
		Reference:   reference,
		Provider:    req.Provider,
		Receiver:    req.Receiver,
		ProcessedBy: req.ProcessedBy,
	}

	result, err := h.verifyPaymentUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
