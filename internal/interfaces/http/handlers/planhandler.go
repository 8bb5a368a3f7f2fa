package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krona/internal/application/subscription/usecases"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type PlanHandler struct {
	createPlanUC       createPlanUseCase
	updatePlanUC       updatePlanUseCase
	updatePlanStatusUC updatePlanStatusUseCase
	getPlanUC          getPlanUseCase
	listPlansUC        listPlansUseCase
	deletePlanUC       deletePlanUseCase
	listPlanMembersUC  listPlanMembersUseCase
	logger             logger.Interface
}

func NewPlanHandler(
	createPlanUC createPlanUseCase,
	updatePlanUC updatePlanUseCase,
	updatePlanStatusUC updatePlanStatusUseCase,
	getPlanUC getPlanUseCase,
	listPlansUC listPlansUseCase,
	deletePlanUC deletePlanUseCase,
	listPlanMembersUC listPlanMembersUseCase,
) *PlanHandler {
	return &PlanHandler{
		createPlanUC:       createPlanUC,
		updatePlanUC:       updatePlanUC,
		updatePlanStatusUC: updatePlanStatusUC,
		getPlanUC:          getPlanUC,
		listPlansUC:        listPlansUC,
		deletePlanUC:       deletePlanUC,
		listPlanMembersUC:  listPlanMembersUC,
		logger:             logger.NewLogger(),
	}
}

type CreatePlanRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Description  string                 `json:"description"`
	PriceCents   uint64                 `json:"price_cents"`
	Currency     string                 `json:"currency"`
	BillingCycle string                 `json:"billing_cycle" binding:"required"`
	Limits       map[string]interface{} `json:"limits"`
	Features     []string               `json:"features"`
	IsPopular    bool                   `json:"is_popular"`
	DisplayOrder int                    `json:"display_order"`
	CreatedBy    string                 `json:"created_by"`
}

type UpdatePlanRequest struct {
	Name         *string                `json:"name"`
	Description  *string                `json:"description"`
	PriceCents   *uint64                `json:"price_cents"`
	Currency     *string                `json:"currency"`
	BillingCycle *string                `json:"billing_cycle"`
	Limits       map[string]interface{} `json:"limits"`
	Features     []string               `json:"features"`
	IsPopular    *bool                  `json:"is_popular"`
	DisplayOrder *int                   `json:"display_order"`
}

// UpdatePlanStatusRequest represents a unified request for plan status changes
type UpdatePlanStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive archived"`
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.CreatePlanCommand{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		Limits:       req.Limits,
		Features:     req.Features,
		IsPopular:    req.IsPopular,
		DisplayOrder: req.DisplayOrder,
		CreatedBy:    req.CreatedBy,
	}

	result, err := h.createPlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planSID := c.Param("id")

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update plan",
			"plan_id", planSID,
			"error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.UpdatePlanCommand{
		PlanSID:      planSID,
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		Limits:       req.Limits,
		Features:     req.Features,
		IsPopular:    req.IsPopular,
		DisplayOrder: req.DisplayOrder,
	}

	result, err := h.updatePlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", result)
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	result, err := h.getPlanUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	p := utils.ParsePagination(c)

	query := usecases.ListPlansQuery{
		Page:     p.Page,
		PageSize: p.PageSize,
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_desc") == "true",
	}
	if status := c.Query("status"); status != "" {
		query.Status = &status
	}
	if cycle := c.Query("billing_cycle"); cycle != "" {
		query.BillingCycle = &cycle
	}

	plans, total, err := h.listPlansUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, plans, total, p.Page, p.PageSize)
}

func (h *PlanHandler) UpdatePlanStatus(c *gin.Context) {
	planSID := c.Param("id")

	var req UpdatePlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update plan status", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.UpdatePlanStatusCommand{
		PlanSID: planSID,
		Status:  req.Status,
	}

	result, err := h.updatePlanStatusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan status updated successfully", result)
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.deletePlanUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *PlanHandler) ListPlanMembers(c *gin.Context) {
	p := utils.ParsePagination(c)

	members, total, err := h.listPlanMembersUC.Execute(c.Request.Context(), c.Param("id"), p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, members, total, p.Page, p.PageSize)
}
