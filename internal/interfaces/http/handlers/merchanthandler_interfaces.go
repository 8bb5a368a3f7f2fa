package handlers

import (
	"context"

	merchantusecases "krona/internal/application/merchant/usecases"
	subdto "krona/internal/application/subscription/dto"
)

// Use case interfaces for MerchantHandler

type createMerchantUseCase interface {
	Execute(ctx context.Context, cmd merchantusecases.CreateMerchantCommand) (*subdto.MerchantDTO, error)
}

type getMerchantUseCase interface {
	Execute(ctx context.Context, merchantSID string) (*subdto.MerchantDTO, error)
}

type listMerchantsUseCase interface {
	Execute(ctx context.Context, query merchantusecases.ListMerchantsQuery) ([]*subdto.MerchantDTO, int64, error)
}

type resolveSubscriptionUseCase interface {
	Execute(ctx context.Context, merchantSID string) (*subdto.SubscriptionDTO, error)
}

type getTrialStatusUseCase interface {
	Execute(ctx context.Context, merchantSID string) (*subdto.TrialStatusDTO, error)
}
