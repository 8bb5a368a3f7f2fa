package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type ListMerchantsQuery struct {
	Status   *string
	Page     int
	PageSize int
}

type ListMerchantsUseCase struct {
	merchantRepo merchant.Repository
	logger       logger.Interface
}

func NewListMerchantsUseCase(merchantRepo merchant.Repository, logger logger.Interface) *ListMerchantsUseCase {
	return &ListMerchantsUseCase{
		merchantRepo: merchantRepo,
		logger:       logger,
	}
}

func (uc *ListMerchantsUseCase) Execute(ctx context.Context, query ListMerchantsQuery) ([]*dto.MerchantDTO, int64, error) {
	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	merchants, total, err := uc.merchantRepo.List(ctx, merchant.Filter{
		Status:   query.Status,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		uc.logger.Errorw("failed to list merchants", "error", err)
		return nil, 0, fmt.Errorf("failed to list merchants: %w", err)
	}

	return dto.NewMerchantDTOs(merchants), total, nil
}
