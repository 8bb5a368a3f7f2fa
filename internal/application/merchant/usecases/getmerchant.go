package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

type GetMerchantUseCase struct {
	merchantRepo merchant.Repository
	logger       logger.Interface
}

func NewGetMerchantUseCase(merchantRepo merchant.Repository, logger logger.Interface) *GetMerchantUseCase {
	return &GetMerchantUseCase{
		merchantRepo: merchantRepo,
		logger:       logger,
	}
}

func (uc *GetMerchantUseCase) Execute(ctx context.Context, merchantSID string) (*dto.MerchantDTO, error) {
	m, err := uc.merchantRepo.GetBySID(ctx, merchantSID)
	if err != nil {
		uc.logger.Errorw("failed to get merchant", "merchant_sid", merchantSID, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m == nil {
		return nil, apperrors.NewNotFoundError("merchant not found")
	}

	return dto.NewMerchantDTO(m), nil
}
