package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"krona/internal/application/subscription/usecases"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type AssignmentHandler struct {
	assignPlanUC      assignPlanUseCase
	applyAssignmentUC applyAssignmentUseCase
	logger            logger.Interface
}

func NewAssignmentHandler(
	assignPlanUC assignPlanUseCase,
	applyAssignmentUC applyAssignmentUseCase,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignPlanUC:      assignPlanUC,
		applyAssignmentUC: applyAssignmentUC,
		logger:            logger.NewLogger(),
	}
}

type AssignPlanRequest struct {
	MerchantID     string     `json:"merchant_id" binding:"required"`
	PlanID         string     `json:"plan_id" binding:"required"`
	AssignmentType string     `json:"assignment_type" binding:"required,oneof=immediate scheduled"`
	ScheduledDate  *time.Time `json:"scheduled_date"`
	DurationType   string     `json:"duration_type" binding:"omitempty,oneof=permanent temporary"`
	EndDate        *time.Time `json:"end_date"`
	Notes          string     `json:"notes"`
	AssignedBy     string     `json:"assigned_by" binding:"required"`
}

func (h *AssignmentHandler) AssignPlan(c *gin.Context) {
	var req AssignPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assign plan", "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := usecases.AssignPlanCommand{
		MerchantSID:    req.MerchantID,
		PlanSID:        req.PlanID,
		AssignmentType: req.AssignmentType,
		ScheduledDate:  req.ScheduledDate,
		DurationType:   req.DurationType,
		EndDate:        req.EndDate,
		Notes:          req.Notes,
		AssignedBy:     req.AssignedBy,
	}

	result, err := h.assignPlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan assigned successfully")
}

func (h *AssignmentHandler) ApplyAssignment(c *gin.Context) {
	result, err := h.applyAssignmentUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Assignment applied successfully", result)
}
