package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

type CreatePlanCommand struct {
	Name         string
	Description  string
	PriceCents   uint64
	Currency     string
	BillingCycle string
	Limits       map[string]interface{}
	Features     []string
	IsPopular    bool
	DisplayOrder int
	CreatedBy    string
}

type CreatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewCreatePlanUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*dto.PlanDTO, error) {
	exists, err := uc.planRepo.ExistsByName(ctx, cmd.Name)
	if err != nil {
		uc.logger.Errorw("failed to check plan name", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to check plan name: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError("plan name already exists")
	}

	cycle, err := vo.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	plan, err := subscription.NewPlan(id.NewPlanSID(), cmd.Name, cmd.Description, cmd.PriceCents,
		cmd.Currency, cycle, cmd.CreatedBy)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	plan.UpdateLimits(cmd.Limits)
	plan.UpdateFeatures(cmd.Features)
	plan.UpdateDisplay(cmd.IsPopular, cmd.DisplayOrder)

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("plan name already exists")
		}
		uc.logger.Errorw("failed to create plan", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	uc.logger.Infow("plan created", "plan_sid", plan.SID(), "name", plan.Name(), "created_by", cmd.CreatedBy)
	return dto.NewPlanDTO(plan), nil
}
