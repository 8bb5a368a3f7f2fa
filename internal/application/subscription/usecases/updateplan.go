package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

type UpdatePlanCommand struct {
	PlanSID      string
	Name         *string
	Description  *string
	PriceCents   *uint64
	Currency     *string
	BillingCycle *string
	Limits       map[string]interface{}
	Features     []string
	IsPopular    *bool
	DisplayOrder *int
}

type UpdatePlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewUpdatePlanUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	if cmd.Name != nil && *cmd.Name != plan.Name() {
		exists, err := uc.planRepo.ExistsByName(ctx, *cmd.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check plan name: %w", err)
		}
		if exists {
			return nil, apperrors.NewConflictError("plan name already exists")
		}
		if err := plan.UpdateName(*cmd.Name); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Description != nil {
		plan.UpdateDescription(*cmd.Description)
	}

	if cmd.PriceCents != nil || cmd.Currency != nil || cmd.BillingCycle != nil {
		priceCents := plan.PriceCents()
		if cmd.PriceCents != nil {
			priceCents = *cmd.PriceCents
		}
		currency := plan.Currency()
		if cmd.Currency != nil {
			currency = *cmd.Currency
		}
		cycle := plan.BillingCycle()
		if cmd.BillingCycle != nil {
			parsed, err := vo.ParseBillingCycle(*cmd.BillingCycle)
			if err != nil {
				return nil, apperrors.NewValidationError(err.Error())
			}
			cycle = parsed
		}
		if err := plan.UpdatePricing(priceCents, currency, cycle); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	if cmd.Limits != nil {
		plan.UpdateLimits(cmd.Limits)
	}
	if cmd.Features != nil {
		plan.UpdateFeatures(cmd.Features)
	}
	if cmd.IsPopular != nil || cmd.DisplayOrder != nil {
		isPopular := plan.IsPopular()
		if cmd.IsPopular != nil {
			isPopular = *cmd.IsPopular
		}
		displayOrder := plan.DisplayOrder()
		if cmd.DisplayOrder != nil {
			displayOrder = *cmd.DisplayOrder
		}
		plan.UpdateDisplay(isPopular, displayOrder)
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil, apperrors.NewConflictError("plan name already exists")
		}
		uc.logger.Errorw("failed to update plan", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	uc.logger.Infow("plan updated", "plan_sid", plan.SID())
	return dto.NewPlanDTO(plan), nil
}
