package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

type CreateMerchantCommand struct {
	Name        string
	OwnerEmail  string
	OwnerUserID *uint
}

type CreateMerchantUseCase struct {
	merchantRepo merchant.Repository
	logger       logger.Interface
}

func NewCreateMerchantUseCase(merchantRepo merchant.Repository, logger logger.Interface) *CreateMerchantUseCase {
	return &CreateMerchantUseCase{
		merchantRepo: merchantRepo,
		logger:       logger,
	}
}

func (uc *CreateMerchantUseCase) Execute(ctx context.Context, cmd CreateMerchantCommand) (*dto.MerchantDTO, error) {
	m, err := merchant.NewMerchant(id.NewMerchantSID(), cmd.Name, cmd.OwnerEmail, cmd.OwnerUserID)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.merchantRepo.Create(ctx, m); err != nil {
		uc.logger.Errorw("failed to create merchant", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	uc.logger.Infow("merchant created", "merchant_sid", m.SID(), "name", m.Name())
	return dto.NewMerchantDTO(m), nil
}
