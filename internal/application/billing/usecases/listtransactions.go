package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/billing/dto"
	"krona/internal/domain/billing"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
	"krona/internal/shared/utils"
)

type ListTransactionsQuery struct {
	MerchantSID *string
	PlanSID     *string
	Status      *string
	Page        int
	PageSize    int
	SortBy      string
	SortDesc    bool
}

type ListTransactionsUseCase struct {
	transactionRepo billing.TransactionRepository
	merchantRepo    merchant.Repository
	planRepo        subscription.PlanRepository
	logger          logger.Interface
}

func NewListTransactionsUseCase(
	transactionRepo billing.TransactionRepository,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
		merchantRepo:    merchantRepo,
		planRepo:        planRepo,
		logger:          logger,
	}
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, query ListTransactionsQuery) ([]*dto.TransactionDTO, int64, error) {
	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	filter := billing.TransactionFilter{
		Status:   query.Status,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
		SortBy:   query.SortBy,
		SortDesc: query.SortDesc,
	}

	if query.MerchantSID != nil {
		m, err := uc.merchantRepo.GetBySID(ctx, *query.MerchantSID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get merchant: %w", err)
		}
		if m == nil {
			return nil, 0, apperrors.NewNotFoundError("merchant not found")
		}
		mid := m.ID()
		filter.MerchantID = &mid
	}

	if query.PlanSID != nil {
		plan, err := uc.planRepo.GetBySID(ctx, *query.PlanSID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return nil, 0, apperrors.NewNotFoundError("plan not found")
		}
		pid := plan.ID()
		filter.PlanID = &pid
	}

	transactions, total, err := uc.transactionRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list billing transactions", "error", err)
		return nil, 0, fmt.Errorf("failed to list billing transactions: %w", err)
	}

	dtos := make([]*dto.TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, dto.NewTransactionDTO(tx, "", ""))
	}

	return dtos, total, nil
}
