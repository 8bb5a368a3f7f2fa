package dto

import (
	"time"

	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
)

// SubscriptionDTO is the API representation of a merchant's effective
// subscription. Virtual free subscriptions carry Synthetic=true and a
// virtual-free-<merchant> identifier.
type SubscriptionDTO struct {
	SID             string     `json:"id"`
	MerchantSID     string     `json:"merchant_id"`
	Plan            *PlanDTO   `json:"plan,omitempty"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	PriceCents      uint64     `json:"price_cents"`
	BillingCycle    string     `json:"billing_cycle"`
	Synthetic       bool       `json:"synthetic"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewSubscriptionDTO(sub *subscription.Subscription, merchantSID string, plan *subscription.Plan) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		SID:             sub.SID(),
		MerchantSID:     merchantSID,
		Plan:            NewPlanDTO(plan),
		Status:          sub.Status().String(),
		StartDate:       sub.StartDate(),
		EndDate:         sub.EndDate(),
		NextBillingDate: sub.NextBillingDate(),
		PriceCents:      sub.PriceCents(),
		BillingCycle:    sub.BillingCycle().String(),
		Synthetic:       sub.Synthetic(),
		CreatedAt:       sub.CreatedAt(),
	}
}

// AssignmentDTO is the API representation of a plan assignment.
type AssignmentDTO struct {
	SID            string     `json:"id"`
	MerchantSID    string     `json:"merchant_id"`
	PlanSID        string     `json:"plan_id"`
	AssignmentType string     `json:"assignment_type"`
	ScheduledDate  *time.Time `json:"scheduled_date,omitempty"`
	DurationType   string     `json:"duration_type"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	AssignedBy     string     `json:"assigned_by"`
	IsApplied      bool       `json:"is_applied"`
	AppliedAt      *time.Time `json:"applied_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewAssignmentDTO(a *subscription.PlanAssignment, merchantSID, planSID string) *AssignmentDTO {
	if a == nil {
		return nil
	}
	return &AssignmentDTO{
		SID:            a.SID(),
		MerchantSID:    merchantSID,
		PlanSID:        planSID,
		AssignmentType: a.AssignmentType().String(),
		ScheduledDate:  a.ScheduledDate(),
		DurationType:   a.DurationType().String(),
		EndDate:        a.EndDate(),
		Notes:          a.Notes(),
		AssignedBy:     a.AssignedBy(),
		IsApplied:      a.IsApplied(),
		AppliedAt:      a.AppliedAt(),
		CreatedAt:      a.CreatedAt(),
	}
}

// PlanMemberDTO is one row of a plan membership listing. Virtual members are
// merchants on the implicit free tier with no subscription row.
type PlanMemberDTO struct {
	MerchantSID     string     `json:"merchant_id"`
	MerchantName    string     `json:"merchant_name"`
	SubscriptionSID string     `json:"subscription_id,omitempty"`
	Status          string     `json:"status"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Virtual         bool       `json:"virtual"`
}

// MerchantDTO is the API representation of a merchant.
type MerchantDTO struct {
	SID         string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	OwnerEmail  string    `json:"owner_email"`
	OwnerUserID *uint     `json:"owner_user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewMerchantDTO(m *merchant.Merchant) *MerchantDTO {
	if m == nil {
		return nil
	}
	return &MerchantDTO{
		SID:         m.SID(),
		Name:        m.Name(),
		Status:      string(m.Status()),
		OwnerEmail:  m.OwnerEmail(),
		OwnerUserID: m.OwnerUserID(),
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}

func NewMerchantDTOs(ms []*merchant.Merchant) []*MerchantDTO {
	dtos := make([]*MerchantDTO, 0, len(ms))
	for _, m := range ms {
		dtos = append(dtos, NewMerchantDTO(m))
	}
	return dtos
}

// TrialStatusDTO reports how a merchant's effective subscription came to be.
type TrialStatusDTO struct {
	MerchantSID   string `json:"merchant_id"`
	HasPaidPlan   bool   `json:"has_paid_plan"`
	OnVirtualFree bool   `json:"on_virtual_free"`
	PlanName      string `json:"plan_name,omitempty"`
}
