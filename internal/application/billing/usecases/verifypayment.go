package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/billing/dto"
	subscriptionusecases "krona/internal/application/subscription/usecases"
	"krona/internal/domain/billing"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/shared/biztime"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/logger"
)

type VerifyPaymentCommand struct {
	Reference   string
	Provider    string
	Receiver    string
	ProcessedBy string
}

type VerifyPaymentResult struct {
	Transaction *dto.TransactionDTO
	Verified    bool
}

// VerifyPaymentUseCase asks the external verifier about a pending ledger
// entry. A confirmed payment marks the transaction verified and puts the
// merchant on the paid plan through an immediate assignment. The status flip
// and the assignment commit together; if either fails the transaction stays
// pending and the verification can be retried.
type VerifyPaymentUseCase struct {
	txManager        TxManager
	transactionRepo  billing.TransactionRepository
	merchantRepo     merchant.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	verifier         PaymentVerifier
	assignPlanUC     *subscriptionusecases.AssignPlanUseCase
	logger           logger.Interface
}

func NewVerifyPaymentUseCase(
	txManager TxManager,
	transactionRepo billing.TransactionRepository,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	verifier PaymentVerifier,
	assignPlanUC *subscriptionusecases.AssignPlanUseCase,
	logger logger.Interface,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		txManager:        txManager,
		transactionRepo:  transactionRepo,
		merchantRepo:     merchantRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		verifier:         verifier,
		assignPlanUC:     assignPlanUC,
		logger:           logger,
	}
}

func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, cmd VerifyPaymentCommand) (*VerifyPaymentResult, error) {
	tx, err := uc.transactionRepo.GetByReference(ctx, cmd.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get billing transaction: %w", err)
	}
	if tx == nil {
		return nil, apperrors.NewNotFoundError("billing transaction not found")
	}
	if tx.Status().IsTerminal() {
		return nil, apperrors.NewConflictError("transaction is already settled")
	}

	verifyResult, err := uc.verifier.Verify(ctx, VerifyRequest{
		Provider:    cmd.Provider,
		Reference:   tx.PaymentReference(),
		AmountCents: tx.AmountCents(),
		Currency:    tx.Currency(),
		Receiver:    cmd.Receiver,
	})
	if err != nil {
		uc.logger.Errorw("payment verifier call failed",
			"reference", tx.Reference(), "provider", cmd.Provider, "error", err)
		return nil, fmt.Errorf("payment verification failed: %w", err)
	}

	if !verifyResult.Verified {
		uc.logger.Infow("payment not verified, transaction left pending",
			"reference", tx.Reference(), "provider", cmd.Provider)
		return &VerifyPaymentResult{
			Transaction: dto.NewTransactionDTO(tx, "", ""),
			Verified:    false,
		}, nil
	}

	m, err := uc.merchantRepo.GetByID(ctx, tx.MerchantID())
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	plan, err := uc.planRepo.GetByID(ctx, tx.PlanID())
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if m == nil || plan == nil {
		return nil, apperrors.NewNotFoundError("merchant or plan missing for verified transaction")
	}

	// The assignment runs first and the status flip joins its transaction.
	// A rejected plan change (the plan was deactivated since the ledger
	// entry was opened) leaves the transaction pending and retryable
	// instead of stranding it verified without a subscription.
	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		assignResult, err := uc.assignPlanUC.Execute(txCtx, subscriptionusecases.AssignPlanCommand{
			MerchantSID:    m.SID(),
			PlanSID:        plan.SID(),
			AssignmentType: vo.AssignmentImmediate.String(),
			DurationType:   vo.DurationPermanent.String(),
			Notes:          fmt.Sprintf("Payment verified for %s", tx.Reference()),
			AssignedBy:     cmd.ProcessedBy,
		})
		if err != nil {
			return err
		}

		if err := tx.MarkVerified(cmd.ProcessedBy, biztime.NowUTC()); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if assignResult.Subscription != nil {
			sub, err := uc.subscriptionRepo.GetBySID(txCtx, assignResult.Subscription.SID)
			if err != nil {
				return fmt.Errorf("failed to load created subscription: %w", err)
			}
			if sub != nil {
				tx.AttachSubscription(sub.ID())
			}
		}
		if err := uc.transactionRepo.Update(txCtx, tx); err != nil {
			return fmt.Errorf("failed to update billing transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to activate plan for verified payment",
			"reference", tx.Reference(), "merchant_sid", m.SID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("payment verified and plan activated",
		"reference", tx.Reference(), "merchant_sid", m.SID(), "plan_sid", plan.SID())
	return &VerifyPaymentResult{
		Transaction: dto.NewTransactionDTO(tx, m.SID(), plan.SID()),
		Verified:    true,
	}, nil
}
