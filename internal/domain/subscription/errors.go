package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrPlanNotFound             = errors.New("plan not found")
	ErrPlanInactive             = errors.New("plan inactive")
	ErrPlanNameExists           = errors.New("plan name already exists")
	ErrPlanHasSubscribers       = errors.New("plan has active subscribers")
	ErrFreePlanUnavailable      = errors.New("free plan unavailable")
	ErrAssignmentNotFound       = errors.New("plan assignment not found")
	ErrAssignmentAlreadyApplied = errors.New("plan assignment already applied")
	ErrMissingScheduledDate     = errors.New("scheduled assignment requires a scheduled date")
	ErrInvalidBillingCycle      = errors.New("invalid billing cycle")
	ErrInvalidPrice             = errors.New("invalid price")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
