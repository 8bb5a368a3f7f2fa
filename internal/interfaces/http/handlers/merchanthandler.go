package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	merchantusecases "krona/internal/application/merchant/usecases"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type MerchantHandler struct {
	createMerchantUC createMerchantUseCase
	getMerchantUC    getMerchantUseCase
	listMerchantsUC  listMerchantsUseCase
	resolveSubUC     resolveSubscriptionUseCase
	getTrialStatusUC getTrialStatusUseCase
	logger           logger.Interface
}

func NewMerchantHandler(
	createMerchantUC createMerchantUseCase,
	getMerchantUC getMerchantUseCase,
	listMerchantsUC listMerchantsUseCase,
	resolveSubUC resolveSubscriptionUseCase,
	getTrialStatusUC getTrialStatusUseCase,
) *MerchantHandler {
	return &MerchantHandler{
		createMerchantUC: createMerchantUC,
		getMerchantUC:    getMerchantUC,
		listMerchantsUC:  listMerchantsUC,
		resolveSubUC:     resolveSubUC,
		getTrialStatusUC: getTrialStatusUC,
		logger:           logger.NewLogger(),
	}
}

type CreateMerchantRequest struct {
	Name        string `json:"name" binding:"required"`
	OwnerEmail  string `json:"owner_email" binding:"required,email"`
	OwnerUserID *uint  `json:"owner_user_id"`
}

func (h *MerchantHandler) CreateMerchant(c *gin.Context) {
	var req CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create merchant", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := merchantusecases.CreateMerchantCommand{
		Name:        req.Name,
		OwnerEmail:  req.OwnerEmail,
		OwnerUserID: req.OwnerUserID,
	}

	result, err := h.createMerchantUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Merchant created successfully")
}

func (h *MerchantHandler) GetMerchant(c *gin.Context) {
	result, err := h.getMerchantUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := merchantusecases.ListMerchantsQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}

	merchants, total, err := h.listMerchantsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, merchants, total, p.Page, p.PageSize)
}

// GetSubscription resolves the merchant's effective subscription. Merchants
// without a paid row get the synthesized Free subscription; suspended and
// closed merchants get an empty payload.
func (h *MerchantHandler) GetSubscription(c *gin.Context) {
	result, err := h.resolveSubUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *MerchantHandler) GetTrialStatus(c *gin.Context) {
	result, err := h.getTrialStatusUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
