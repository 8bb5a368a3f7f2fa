package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/subscription"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

type UpdatePlanStatusCommand struct {
	PlanSID string
	Status  string
}

type UpdatePlanStatusUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewUpdatePlanStatusUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *UpdatePlanStatusUseCase {
	return &UpdatePlanStatusUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *UpdatePlanStatusUseCase) Execute(ctx context.Context, cmd UpdatePlanStatusCommand) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	if err := plan.ChangeStatus(subscription.PlanStatus(cmd.Status)); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to update plan status", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to update plan status: %w", err)
	}

	uc.logger.Infow("plan status updated", "plan_sid", plan.SID(), "status", cmd.Status)
	return dto.NewPlanDTO(plan), nil
}
