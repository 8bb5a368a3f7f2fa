package usecases

import (
	"context"
	"fmt"

	"krona/internal/application/notification"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	"krona/internal/shared/biztime"
	"krona/internal/shared/logger"
)

// ExpireSubscriptionsUseCase moves active subscriptions whose end date has
// passed to expired and notifies the merchant owner and admins. Per-row
// failures are logged and skipped so one bad row never blocks the batch.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	merchantRepo     merchant.Repository
	planRepo         subscription.PlanRepository
	gateway          notification.Gateway
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	gateway notification.Gateway,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		merchantRepo:     merchantRepo,
		planRepo:         planRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

// Execute returns the number of subscriptions transitioned to expired. A
// second run over the same data selects nothing.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	expired, err := uc.subscriptionRepo.FindExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expired subscriptions to process", "count", len(expired))

	markedCount := 0
	for _, sub := range expired {
		if err := sub.Expire(now); err != nil {
			uc.logger.Warnw("failed to mark subscription as expired",
				"subscription_sid", sub.SID(),
				"current_status", sub.Status().String(),
				"error", err)
			continue
		}

		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to update expired subscription",
				"subscription_sid", sub.SID(), "error", err)
			continue
		}

		markedCount++
		uc.notify(ctx, sub)
	}

	return markedCount, nil
}

// notify is fire and forget; delivery problems never undo the transition.
func (uc *ExpireSubscriptionsUseCase) notify(ctx context.Context, sub *subscription.Subscription) {
	m, err := uc.merchantRepo.GetByID(ctx, sub.MerchantID())
	if err != nil || m == nil {
		uc.logger.Warnw("skipping expiry notification, merchant unavailable",
			"subscription_sid", sub.SID(), "merchant_id", sub.MerchantID(), "error", err)
		return
	}

	planName := ""
	if plan, err := uc.planRepo.GetByID(ctx, sub.PlanID()); err == nil && plan != nil {
		planName = plan.Name()
	}

	event := notification.SubscriptionExpiredEvent{
		MerchantSID:  m.SID(),
		MerchantName: m.Name(),
		OwnerEmail:   m.OwnerEmail(),
		OwnerUserID:  m.OwnerUserID(),
		PlanName:     planName,
	}
	if sub.EndDate() != nil {
		event.EndDate = *sub.EndDate()
	}

	if err := uc.gateway.NotifySubscriptionExpired(ctx, event); err != nil {
		uc.logger.Errorw("failed to send expiry notification",
			"merchant_sid", m.SID(), "subscription_sid", sub.SID(), "error", err)
	}
}
