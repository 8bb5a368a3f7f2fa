// Package notification defines the outbound notification contract consumed
// by the lifecycle jobs. Delivery failures are logged by callers and never
// fail a state transition.
package notification

import (
	"context"
	"time"
)

// SubscriptionExpiringEvent describes a subscription approaching its end
// date.
type SubscriptionExpiringEvent struct {
	MerchantSID  string
	MerchantName string
	OwnerEmail   string
	OwnerUserID  *uint
	PlanName     string
	EndDate      time.Time
	DaysLeft     int
}

// SubscriptionExpiredEvent describes a subscription that has been moved to
// expired.
type SubscriptionExpiredEvent struct {
	MerchantSID  string
	MerchantName string
	OwnerEmail   string
	OwnerUserID  *uint
	PlanName     string
	EndDate      time.Time
}

// Gateway delivers subscription lifecycle notifications to the merchant
// owner and the configured admin recipients.
type Gateway interface {
	NotifySubscriptionExpiringSoon(ctx context.Context, event SubscriptionExpiringEvent) error
	NotifySubscriptionExpired(ctx context.Context, event SubscriptionExpiredEvent) error
}

// NoopGateway discards every notification. Used when notifications are
// disabled and in tests.
type NoopGateway struct{}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

func (g *NoopGateway) NotifySubscriptionExpiringSoon(ctx context.Context, event SubscriptionExpiringEvent) error {
	return nil
}

func (g *NoopGateway) NotifySubscriptionExpired(ctx context.Context, event SubscriptionExpiredEvent) error {
	return nil
}
