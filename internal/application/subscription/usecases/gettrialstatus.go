package usecases

import (
	"context"

	"krona/internal/application/subscription/dto"
	"krona/internal/shared/logger"
)

// GetTrialStatusUseCase reports whether a merchant is on a paid plan, the
// implicit free tier, or has no resolvable subscription at all.
type GetTrialStatusUseCase struct {
	resolver *ResolveSubscriptionUseCase
	logger   logger.Interface
}

func NewGetTrialStatusUseCase(resolver *ResolveSubscriptionUseCase, logger logger.Interface) *GetTrialStatusUseCase {
	return &GetTrialStatusUseCase{
		resolver: resolver,
		logger:   logger,
	}
}

func (uc *GetTrialStatusUseCase) Execute(ctx context.Context, merchantSID string) (*dto.TrialStatusDTO, error) {
	sub, err := uc.resolver.Execute(ctx, merchantSID)
	if err != nil {
		return nil, err
	}

	status := &dto.TrialStatusDTO{MerchantSID: merchantSID}
	if sub == nil {
		return status, nil
	}

	if sub.Synthetic {
		status.OnVirtualFree = true
	} else if sub.PriceCents > 0 {
		status.HasPaidPlan = true
	}
	if sub.Plan != nil {
		status.PlanName = sub.Plan.Name
	}

	return status, nil
}
