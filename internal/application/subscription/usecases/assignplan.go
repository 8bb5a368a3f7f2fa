package usecases

import (
	"context"
	"fmt"
	"time"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

type AssignPlanCommand struct {
	MerchantSID    string
	PlanSID        string
	AssignmentType string
	ScheduledDate  *time.Time
	DurationType   string
	EndDate        *time.Time
	Notes          string
	AssignedBy     string
}

type AssignPlanResult struct {
	Assignment   *dto.AssignmentDTO
	Subscription *dto.SubscriptionDTO
}

// AssignPlanUseCase records the administrator's decision to put a merchant on
// a plan. Immediate assignments are applied synchronously before returning.
type AssignPlanUseCase struct {
	merchantRepo   merchant.Repository
	planRepo       subscription.PlanRepository
	assignmentRepo subscription.PlanAssignmentRepository
	applyUC        *ApplyAssignmentUseCase
	logger         logger.Interface
}

func NewAssignPlanUseCase(
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	assignmentRepo subscription.PlanAssignmentRepository,
	applyUC *ApplyAssignmentUseCase,
	logger logger.Interface,
) *AssignPlanUseCase {
	return &AssignPlanUseCase{
		merchantRepo:   merchantRepo,
		planRepo:       planRepo,
		assignmentRepo: assignmentRepo,
		applyUC:        applyUC,
		logger:         logger,
	}
}

func (uc *AssignPlanUseCase) Execute(ctx context.Context, cmd AssignPlanCommand) (*AssignPlanResult, error) {
	m, err := uc.merchantRepo.GetBySID(ctx, cmd.MerchantSID)
	if err != nil {
		uc.logger.Errorw("failed to get merchant", "merchant_sid", cmd.MerchantSID, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m == nil {
		return nil, apperrors.NewNotFoundError("merchant not found")
	}

	plan, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	if !plan.IsActive() {
		return nil, apperrors.NewInvalidStateError("plan is not active")
	}

	assignmentType, err := vo.ParseAssignmentType(cmd.AssignmentType)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if assignmentType == vo.AssignmentScheduled && cmd.ScheduledDate == nil {
		return nil, apperrors.NewValidationError("scheduled assignment requires a scheduled date")
	}

	durationType := vo.DurationPermanent
	if cmd.DurationType != "" {
		durationType, err = vo.ParseDurationType(cmd.DurationType)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	assignment, err := subscription.NewPlanAssignment(id.NewAssignmentSID(),
		m.ID(), plan.ID(), assignmentType, cmd.ScheduledDate,
		durationType, cmd.EndDate, cmd.Notes, cmd.AssignedBy)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.assignmentRepo.Create(ctx, assignment); err != nil {
		uc.logger.Errorw("failed to create assignment", "merchant_sid", cmd.MerchantSID, "error", err)
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	result := &AssignPlanResult{
		Assignment: dto.NewAssignmentDTO(assignment, m.SID(), plan.SID()),
	}

	if assignmentType == vo.AssignmentImmediate {
		sub, err := uc.applyUC.Execute(ctx, assignment.SID())
		if err != nil {
			return nil, err
		}
		result.Subscription = sub
		// Reflect the applied state in the returned DTO.
		result.Assignment.IsApplied = true
	}

	uc.logger.Infow("plan assigned",
		"merchant_sid", m.SID(), "plan_sid", plan.SID(),
		"assignment_sid", assignment.SID(), "type", assignmentType.String(),
		"assigned_by", cmd.AssignedBy)
	return result, nil
}
