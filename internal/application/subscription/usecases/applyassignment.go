package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/subscription/dto"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/shared/biztime"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

const planChangeReason = "Plan changed by admin"

// TxManager runs a function inside a database transaction carried in ctx.
// Satisfied by db.TransactionManager.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ApplyAssignmentUseCase performs the actual subscription rewrite for an
// assignment. The whole operation runs in one transaction with the merchant
// row locked FOR UPDATE, so two concurrent applies for the same merchant
// serialize and the single-active invariant holds. A rollback leaves the
// assignment unapplied and retryable.
type ApplyAssignmentUseCase struct {
	txManager        TxManager
	merchantRepo     merchant.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	assignmentRepo   subscription.PlanAssignmentRepository
	logger           logger.Interface
}

func NewApplyAssignmentUseCase(
	txManager TxManager,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	assignmentRepo subscription.PlanAssignmentRepository,
	logger logger.Interface,
) *ApplyAssignmentUseCase {
	return &ApplyAssignmentUseCase{
		txManager:        txManager,
		merchantRepo:     merchantRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		assignmentRepo:   assignmentRepo,
		logger:           logger,
	}
}

func (uc *ApplyAssignmentUseCase) Execute(ctx context.Context, assignmentSID string) (*dto.SubscriptionDTO, error) {
	var result *dto.SubscriptionDTO

	err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Reload inside the transaction; the SID lookup takes a row lock so
		// the applied flag cannot be raced.
		assignment, err := uc.assignmentRepo.GetBySID(txCtx, assignmentSID)
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}
		if assignment == nil {
			return apperrors.NewNotFoundError("plan assignment not found")
		}
		if assignment.IsApplied() {
			return apperrors.NewConflictError("plan assignment already applied")
		}

		// Lock the merchant row. Every apply for this merchant funnels
		// through this lock.
		m, err := uc.merchantRepo.LockForUpdate(txCtx, assignment.MerchantID())
		if err != nil {
			return fmt.Errorf("failed to lock merchant: %w", err)
		}
		if m == nil {
			return apperrors.NewNotFoundError("merchant not found")
		}

		plan, err := uc.planRepo.GetByID(txCtx, assignment.PlanID())
		if err != nil {
			return fmt.Errorf("failed to get plan: %w", err)
		}
		if plan == nil {
			return apperrors.NewNotFoundError("plan not found")
		}
		if !plan.IsActive() {
			return apperrors.NewInvalidStateError("plan is not active")
		}

		now := biztime.NowUTC()

		// Cancel whatever is currently active. Normally one row, but drift
		// is repaired here as well.
		active, err := uc.subscriptionRepo.ListActiveByMerchantID(txCtx, assignment.MerchantID())
		if err != nil {
			return fmt.Errorf("failed to list active subscriptions: %w", err)
		}
		for _, sub := range active {
			if err := sub.Cancel(assignment.AssignedBy(), planChangeReason, now); err != nil {
				return fmt.Errorf("failed to cancel subscription %s: %w", sub.SID(), err)
			}
			if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
				return fmt.Errorf("failed to persist cancelled subscription %s: %w", sub.SID(), err)
			}
		}

		var endDate = assignment.EndDate()
		if assignment.DurationType() == vo.DurationPermanent {
			endDate = nil
		}

		newSub, err := subscription.NewSubscription(id.NewSubscriptionSID(),
			assignment.MerchantID(), plan.ID(), now, endDate,
			plan.PriceCents(), plan.BillingCycle())
		if err != nil {
			return fmt.Errorf("failed to build subscription: %w", err)
		}
		if err := uc.subscriptionRepo.Create(txCtx, newSub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		if err := assignment.MarkApplied(now); err != nil {
			return apperrors.NewConflictError(err.Error())
		}
		if err := uc.assignmentRepo.Update(txCtx, assignment); err != nil {
			return fmt.Errorf("failed to persist applied assignment: %w", err)
		}

		result = dto.NewSubscriptionDTO(newSub, m.SID(), plan)

		uc.logger.Infow("plan assignment applied",
			"assignment_sid", assignment.SID(),
			"merchant_sid", m.SID(),
			"plan_sid", plan.SID(),
			"subscription_sid", newSub.SID(),
			"cancelled_count", len(active))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
