package usecases

import (
	"context"
	"fmt"

	"krona/internal/domain/subscription"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

// DeletePlanUseCase soft-deletes a plan. Deletion is refused while any
// merchant still holds an active subscription to the plan.
type DeletePlanUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewDeletePlanUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *DeletePlanUseCase {
	return &DeletePlanUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *DeletePlanUseCase) Execute(ctx context.Context, planSID string) error {
	plan, err := uc.planRepo.GetBySID(ctx, planSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", planSID, "error", err)
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return apperrors.NewNotFoundError("plan not found")
	}

	count, err := uc.subscriptionRepo.CountActiveByPlanID(ctx, plan.ID())
	if err != nil {
		uc.logger.Errorw("failed to count active subscribers", "plan_sid", planSID, "error", err)
		return fmt.Errorf("failed to count active subscribers: %w", err)
	}
	if count > 0 {
		return apperrors.NewConflictError(
			fmt.Sprintf("plan has %d active subscribers and cannot be deleted", count))
	}

	if err := uc.planRepo.Delete(ctx, plan.ID()); err != nil {
		uc.logger.Errorw("failed to delete plan", "plan_sid", planSID, "error", err)
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	uc.logger.Infow("plan deleted", "plan_sid", planSID, "name", plan.Name())
	return nil
}
