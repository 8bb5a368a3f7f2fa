package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/subscription"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type ListPlansQuery struct {
	Status       *string
	BillingCycle *string
	Page         int
	PageSize     int
	SortBy       string
	SortDesc     bool
}

type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewListPlansUseCase(planRepo subscription.PlanRepository, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, query ListPlansQuery) ([]*dto.PlanDTO, int64, error) {
	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	plans, total, err := uc.planRepo.List(ctx, subscription.PlanFilter{
		Status:       query.Status,
		BillingCycle: query.BillingCycle,
		Page:         pagination.Page,
		PageSize:     pagination.PageSize,
		SortBy:       query.SortBy,
		SortDesc:     query.SortDesc,
	})
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}

	return dto.NewPlanDTOs(plans), total, nil
}
