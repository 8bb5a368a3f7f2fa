package usecases

import (
	"context"
	"fmt"
	"time"

	"krona/internal/application/billing/dto"
	"krona/internal/domain/billing"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	"krona/internal/shared/biztime"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

type CreateTransactionCommand struct {
	MerchantSID        string
	PlanSID            string
	AmountCents        uint64
	Currency           string
	PaymentReference   string
	PaymentMethod      string
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time
	Notes              string
}

// TxManager runs a function inside a database transaction carried in ctx.
// Satisfied by db.TransactionManager.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateTransactionUseCase opens a pending ledger entry. The ledger
// reference is allocated from the year-scoped sequence inside the same
// transaction as the insert, so a failed insert never burns a reference
// ahead of a committed one.
type CreateTransactionUseCase struct {
	txManager       TxManager
	transactionRepo billing.TransactionRepository
	allocator       billing.SequenceAllocator
	merchantRepo    merchant.Repository
	planRepo        subscription.PlanRepository
	logger          logger.Interface
}

func NewCreateTransactionUseCase(
	txManager TxManager,
	transactionRepo billing.TransactionRepository,
	allocator billing.SequenceAllocator,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		allocator:       allocator,
		merchantRepo:    merchantRepo,
		planRepo:        planRepo,
		logger:          logger,
	}
}

func (uc *CreateTransactionUseCase) Execute(ctx context.Context, cmd CreateTransactionCommand) (*dto.TransactionDTO, error) {
	m, err := uc.merchantRepo.GetBySID(ctx, cmd.MerchantSID)
	if err != nil {
		uc.logger.Errorw("failed to get merchant", "merchant_sid", cmd.MerchantSID, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m == nil {
		return nil, apperrors.NewNotFoundError("merchant not found")
	}

	plan, err := uc.planRepo.GetBySID(ctx, cmd.PlanSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_sid", cmd.PlanSID, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	var result *dto.TransactionDTO
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		year := biztime.NowUTC().Year()
		seq, err := uc.allocator.Next(txCtx, year)
		if err != nil {
			return fmt.Errorf("failed to allocate ledger reference: %w", err)
		}
		reference := billing.FormatReference(year, seq)

		tx, err := billing.NewTransaction(id.NewTransactionSID(), reference,
			m.ID(), plan.ID(), nil, cmd.AmountCents, cmd.Currency,
			cmd.PaymentReference, cmd.PaymentMethod,
			cmd.BillingPeriodStart, cmd.BillingPeriodEnd, cmd.Notes)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := uc.transactionRepo.Create(txCtx, tx); err != nil {
			return fmt.Errorf("failed to create billing transaction: %w", err)
		}

		result = dto.NewTransactionDTO(tx, m.SID(), plan.SID())
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("billing transaction opened",
		"reference", result.Reference, "merchant_sid", m.SID(), "plan_sid", plan.SID())
	return result, nil
}
