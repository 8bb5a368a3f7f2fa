package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

// ResolveSubscriptionUseCase answers "what subscription does this merchant
// effectively have". An active row wins; otherwise an active merchant is
// synthesized onto the Free plan without persisting anything.
type ResolveSubscriptionUseCase struct {
	merchantRepo     merchant.Repository
	subscriptionRepo subscription.SubscriptionRepository
	planRepo         subscription.PlanRepository
	logger           logger.Interface
}

func NewResolveSubscriptionUseCase(
	merchantRepo merchant.Repository,
	subscriptionRepo subscription.SubscriptionRepository,
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *ResolveSubscriptionUseCase {
	return &ResolveSubscriptionUseCase{
		merchantRepo:     merchantRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

// Execute resolves the merchant's effective subscription. It returns
// (nil, nil) when the merchant exists but no subscription can be resolved,
// which happens only when the Free plan is missing or inactive.
func (uc *ResolveSubscriptionUseCase) Execute(ctx context.Context, merchantSID string) (*dto.SubscriptionDTO, error) {
	m, err := uc.merchantRepo.GetBySID(ctx, merchantSID)
	if err != nil {
		uc.logger.Errorw("failed to get merchant", "merchant_sid", merchantSID, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m == nil {
		return nil, apperrors.NewNotFoundError("merchant not found")
	}
	if !m.IsActive() {
		return nil, nil
	}

	sub, err := uc.subscriptionRepo.GetActiveByMerchantID(ctx, m.ID())
	if err != nil {
		uc.logger.Errorw("failed to get active subscription", "merchant_sid", merchantSID, "error", err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	if sub != nil {
		plan, err := uc.planRepo.GetByID(ctx, sub.PlanID())
		if err != nil {
			uc.logger.Errorw("failed to get subscription plan", "plan_id", sub.PlanID(), "error", err)
			return nil, fmt.Errorf("failed to get subscription plan: %w", err)
		}
		return dto.NewSubscriptionDTO(sub, m.SID(), plan), nil
	}

	freePlan, err := uc.planRepo.GetByName(ctx, subscription.FreePlanName)
	if err != nil {
		uc.logger.Errorw("failed to get free plan", "error", err)
		return nil, fmt.Errorf("failed to get free plan: %w", err)
	}
	if freePlan == nil || !freePlan.IsActive() {
		uc.logger.Warnw("free plan unavailable, merchant resolves to no subscription",
			"merchant_sid", merchantSID)
		return nil, nil
	}

	virtual, err := subscription.NewVirtualFreeSubscription(m.SID(), m.ID(), freePlan)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize free subscription: %w", err)
	}

	return dto.NewSubscriptionDTO(virtual, m.SID(), freePlan), nil
}
