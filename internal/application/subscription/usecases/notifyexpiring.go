package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"krona/internal/application/notification"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	"krona/internal/shared/biztime"
	"krona/internal/shared/logger"
)

// NotifyExpiringSubscriptionsUseCase warns owners of subscriptions whose end
// date falls in the next one to two days. It mutates nothing; the expiry
// transition happens later in its own job.
type NotifyExpiringSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	merchantRepo     merchant.Repository
	planRepo         subscription.PlanRepository
	gateway          notification.Gateway
	logger           logger.Interface
}

func NewNotifyExpiringSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	merchantRepo merchant.Repository,
	planRepo subscription.PlanRepository,
	gateway notification.Gateway,
	logger logger.Interface,
) *NotifyExpiringSubscriptionsUseCase {
	return &NotifyExpiringSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		merchantRepo:     merchantRepo,
		planRepo:         planRepo,
		gateway:          gateway,
		logger:           logger,
	}
}

// Execute returns the number of expiring-soon notices sent.
func (uc *NotifyExpiringSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()
	from := now.AddDate(0, 0, 1)
	to := now.AddDate(0, 0, 2)

	expiring, err := uc.subscriptionRepo.FindExpiring(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}
	if len(expiring) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found expiring subscriptions to notify", "count", len(expiring))

	notified := 0
	for _, sub := range expiring {
		if sub.EndDate() == nil {
			continue
		}

		m, err := uc.merchantRepo.GetByID(ctx, sub.MerchantID())
		if err != nil || m == nil {
			uc.logger.Warnw("skipping expiring notice, merchant unavailable",
				"subscription_sid", sub.SID(), "merchant_id", sub.MerchantID(), "error", err)
			continue
		}

		planName := ""
		if plan, planErr := uc.planRepo.GetByID(ctx, sub.PlanID()); planErr == nil && plan != nil {
			planName = plan.Name()
		}

		event := notification.SubscriptionExpiringEvent{
			MerchantSID:  m.SID(),
			MerchantName: m.Name(),
			OwnerEmail:   m.OwnerEmail(),
			OwnerUserID:  m.OwnerUserID(),
			PlanName:     planName,
			EndDate:      *sub.EndDate(),
			DaysLeft:     daysLeft(now, *sub.EndDate()),
		}

		if err := uc.gateway.NotifySubscriptionExpiringSoon(ctx, event); err != nil {
			uc.logger.Errorw("failed to send expiring notice",
				"merchant_sid", m.SID(), "subscription_sid", sub.SID(), "error", err)
			continue
		}

		notified++
	}

	return notified, nil
}

// daysLeft rounds the remaining time up to whole days, so an end date 36
// hours out reads as 2 days left.
func daysLeft(now, endDate time.Time) int {
	return int(math.Ceil(endDate.Sub(now).Hours() / 24))
}
