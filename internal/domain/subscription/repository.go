package subscription

import (
	"context"
	"time"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter PlanFilter) ([]*Plan, int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type PlanFilter struct {
	Status       *string
	BillingCycle *string
	Page         int
	PageSize     int
	SortBy       string
	SortDesc     bool
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	Update(ctx context.Context, subscription *Subscription) error

	// GetActiveByMerchantID returns the merchant's active subscription, or
	// nil when none exists.
	GetActiveByMerchantID(ctx context.Context, merchantID uint) (*Subscription, error)
	// ListActiveByMerchantID returns every active subscription of the
	// merchant. More than one row signals drift the orchestrator repairs.
	ListActiveByMerchantID(ctx context.Context, merchantID uint) ([]*Subscription, error)

	FindExpiring(ctx context.Context, from, to time.Time) ([]*Subscription, error)
	FindExpired(ctx context.Context, now time.Time) ([]*Subscription, error)

	ListActiveByPlanID(ctx context.Context, planID uint, offset, limit int) ([]*Subscription, error)
	CountActiveByPlanID(ctx context.Context, planID uint) (int64, error)
}

type PlanAssignmentRepository interface {
	Create(ctx context.Context, assignment *PlanAssignment) error
	GetByID(ctx context.Context, id uint) (*PlanAssignment, error)
	GetBySID(ctx context.Context, sid string) (*PlanAssignment, error)
	Update(ctx context.Context, assignment *PlanAssignment) error

	// DeleteStaleUnapplied removes immediate assignments that were created
	// before the cutoff and never applied. Returns the number deleted.
	DeleteStaleUnapplied(ctx context.Context, cutoff time.Time) (int64, error)
}
