package subscription

import (
	"fmt"
	"time"

	vo "krona/internal/domain/subscription/valueobjects"
)

// Subscription represents the subscription aggregate root. A merchant has at
// most one active subscription; the orchestrator enforces this under a
// merchant row lock.
type Subscription struct {
	id                 uint
	sid                string
	merchantID         uint
	planID             uint
	status             vo.SubscriptionStatus
	startDate          time.Time
	endDate            *time.Time
	nextBillingDate    *time.Time
	priceCents         uint64
	billingCycle       vo.BillingCycle
	cancelledAt        *time.Time
	cancelledBy        *string
	cancellationReason *string
	metadata           map[string]interface{}
	version            int
	synthetic          bool
	createdAt          time.Time
	updatedAt          time.Time
}

// NewSubscription creates a new active subscription snapshotting the plan's
// price and billing cycle. nextBillingDate stays nil for free tiers.
func NewSubscription(sid string, merchantID, planID uint, startDate time.Time,
	endDate *time.Time, priceCents uint64, billingCycle vo.BillingCycle) (*Subscription, error) {

	if sid == "" {
		return nil, fmt.Errorf("subscription sid is required")
	}
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !billingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must be after start date")
	}

	var nextBillingDate *time.Time
	if priceCents > 0 {
		next := billingCycle.NextBillingDate(startDate)
		nextBillingDate = &next
	}

	now := time.Now()
	return &Subscription{
		sid:             sid,
		merchantID:      merchantID,
		planID:          planID,
		status:          vo.StatusActive,
		startDate:       startDate,
		endDate:         endDate,
		nextBillingDate: nextBillingDate,
		priceCents:      priceCents,
		billingCycle:    billingCycle,
		metadata:        make(map[string]interface{}),
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// NewVirtualFreeSubscription synthesizes the in-memory subscription a merchant
// holds when no persisted subscription is active. It is never stored.
func NewVirtualFreeSubscription(merchantSID string, merchantID uint, plan *Plan) (*Subscription, error) {
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if plan == nil {
		return nil, fmt.Errorf("free plan is required")
	}

	now := time.Now()
	return &Subscription{
		sid:          "virtual-free-" + merchantSID,
		merchantID:   merchantID,
		planID:       plan.ID(),
		status:       vo.StatusActive,
		startDate:    now,
		endDate:      nil,
		priceCents:   0,
		billingCycle: plan.BillingCycle(),
		metadata:     make(map[string]interface{}),
		version:      1,
		synthetic:    true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructSubscription reconstructs a subscription from persistence
func ReconstructSubscription(
	id uint,
	sid string,
	merchantID, planID uint,
	status vo.SubscriptionStatus,
	startDate time.Time,
	endDate *time.Time,
	nextBillingDate *time.Time,
	priceCents uint64,
	billingCycle vo.BillingCycle,
	cancelledAt *time.Time,
	cancelledBy *string,
	cancellationReason *string,
	metadata map[string]interface{},
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:                 id,
		sid:                sid,
		merchantID:         merchantID,
		planID:             planID,
		status:             status,
		startDate:          startDate,
		endDate:            endDate,
		nextBillingDate:    nextBillingDate,
		priceCents:         priceCents,
		billingCycle:       billingCycle,
		cancelledAt:        cancelledAt,
		cancelledBy:        cancelledBy,
		cancellationReason: cancellationReason,
		metadata:           metadata,
		version:            version,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

// SetID assigns the database identity after insertion.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	s.id = id
	return nil
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) MerchantID() uint {
	return s.merchantID
}

func (s *Subscription) PlanID() uint {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) EndDate() *time.Time {
	return s.endDate
}

func (s *Subscription) NextBillingDate() *time.Time {
	return s.nextBillingDate
}

func (s *Subscription) PriceCents() uint64 {
	return s.priceCents
}

func (s *Subscription) BillingCycle() vo.BillingCycle {
	return s.billingCycle
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) CancelledBy() *string {
	return s.cancelledBy
}

func (s *Subscription) CancellationReason() *string {
	return s.cancellationReason
}

func (s *Subscription) Metadata() map[string]interface{} {
	return s.metadata
}

func (s *Subscription) Version() int {
	return s.version
}

// Synthetic reports whether this subscription was computed by the resolver
// rather than loaded from the store.
func (s *Subscription) Synthetic() bool {
	return s.synthetic
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

// IsExpiredByDate reports whether the subscription end date has passed.
func (s *Subscription) IsExpiredByDate(now time.Time) bool {
	return s.endDate != nil && s.endDate.Before(now)
}

// Cancel transitions the subscription to cancelled, recording who cancelled
// it and why.
func (s *Subscription) Cancel(cancelledBy, reason string, now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusCancelled) {
		return ErrInvalidTransition(s.status.String(), vo.StatusCancelled.String())
	}
	s.status = vo.StatusCancelled
	s.cancelledAt = &now
	s.cancelledBy = &cancelledBy
	s.cancellationReason = &reason
	s.version++
	s.updatedAt = now
	return nil
}

// Expire transitions the subscription to expired.
func (s *Subscription) Expire(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusExpired) {
		return ErrInvalidTransition(s.status.String(), vo.StatusExpired.String())
	}
	s.status = vo.StatusExpired
	s.version++
	s.updatedAt = now
	return nil
}

// Suspend transitions the subscription to suspended.
func (s *Subscription) Suspend(now time.Time) error {
	if !s.status.CanTransitionTo(vo.StatusSuspended) {
		return ErrInvalidTransition(s.status.String(), vo.StatusSuspended.String())
	}
	s.status = vo.StatusSuspended
	s.version++
	s.updatedAt = now
	return nil
}
