package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"krona/internal/application/billing/dto"
	"krona/internal/domain/billing"
	"krona/internal/shared/biztime"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

type UpdateTransactionStatusCommand struct {
	// Reference accepts either the ledger reference (TXN-...) or the
	// transaction SID (btx_...).
	Reference   string
	Status      string
	ProcessedBy string
	Notes       string
}

type UpdateTransactionStatusUseCase struct {
	transactionRepo billing.TransactionRepository
	logger          logger.Interface
}

func NewUpdateTransactionStatusUseCase(
	transactionRepo billing.TransactionRepository,
	logger logger.Interface,
) *UpdateTransactionStatusUseCase {
	return &UpdateTransactionStatusUseCase{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

func (uc *UpdateTransactionStatusUseCase) Execute(ctx context.Context, cmd UpdateTransactionStatusCommand) (*dto.TransactionDTO, error) {
	status, err := billing.ParseTransactionStatus(cmd.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	tx, err := uc.lookup(ctx, cmd.Reference)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperrors.NewNotFoundError("billing transaction not found")
	}

	if err := tx.ChangeStatus(status, cmd.ProcessedBy, biztime.NowUTC()); err != nil {
		if errors.Is(err, billing.ErrTerminalStatus) {
			return nil, apperrors.NewConflictError(err.Error())
		}
		return nil, apperrors.NewValidationError(err.Error())
	}
	tx.AppendNote(cmd.Notes)

	if err := uc.transactionRepo.Update(ctx, tx); err != nil {
		uc.logger.Errorw("failed to update billing transaction",
			"reference", tx.Reference(), "error", err)
		return nil, fmt.Errorf("failed to update billing transaction: %w", err)
	}

	uc.logger.Infow("billing transaction status updated",
		"reference", tx.Reference(), "status", cmd.Status, "processed_by", cmd.ProcessedBy)
	return dto.NewTransactionDTO(tx, "", ""), nil
}

func (uc *UpdateTransactionStatusUseCase) lookup(ctx context.Context, reference string) (*billing.Transaction, error) {
	if strings.HasPrefix(reference, "btx_") {
		tx, err := uc.transactionRepo.GetBySID(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("failed to get billing transaction: %w", err)
		}
		return tx, nil
	}
	tx, err := uc.transactionRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing transaction: %w", err)
	}
	return tx, nil
}
