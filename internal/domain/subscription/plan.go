package subscription

import (
	"fmt"
	"time"

	vo "krona/internal/domain/subscription/valueobjects"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
	PlanStatusArchived PlanStatus = "archived"
)

var validPlanStatuses = map[PlanStatus]bool{
	PlanStatusActive:   true,
	PlanStatusInactive: true,
	PlanStatusArchived: true,
}

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"CNY": true,
	"JPY": true,
	"SEK": true,
}

// FreePlanName identifies the default tier every merchant falls back to when
// no paid subscription is active.
const FreePlanName = "Free"

type Plan struct {
	id           uint
	sid          string
	name         string
	description  string
	priceCents   uint64
	currency     string
	billingCycle vo.BillingCycle
	limits       map[string]interface{}
	features     []string
	status       PlanStatus
	isPopular    bool
	displayOrder int
	createdBy    string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewPlan(sid, name, description string, priceCents uint64, currency string,
	billingCycle vo.BillingCycle, createdBy string) (*Plan, error) {

	if sid == "" {
		return nil, fmt.Errorf("plan sid is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if !billingCycle.IsValid() {
		return nil, fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}

	now := time.Now()
	return &Plan{
		sid:          sid,
		name:         name,
		description:  description,
		priceCents:   priceCents,
		currency:     currency,
		billingCycle: billingCycle,
		limits:       make(map[string]interface{}),
		features:     []string{},
		status:       PlanStatusActive,
		isPopular:    false,
		displayOrder: 0,
		createdBy:    createdBy,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructPlan(id uint, sid, name, description string, priceCents uint64,
	currency string, billingCycle vo.BillingCycle, limits map[string]interface{},
	features []string, status string, isPopular bool, displayOrder int,
	createdBy string, createdAt, updatedAt time.Time) (*Plan, error) {

	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}

	planStatus := PlanStatus(status)
	if !validPlanStatuses[planStatus] {
		return nil, fmt.Errorf("invalid plan status: %s", status)
	}

	if limits == nil {
		limits = make(map[string]interface{})
	}
	if features == nil {
		features = []string{}
	}

	return &Plan{
		id:           id,
		sid:          sid,
		name:         name,
		description:  description,
		priceCents:   priceCents,
		currency:     currency,
		billingCycle: billingCycle,
		limits:       limits,
		features:     features,
		status:       planStatus,
		isPopular:    isPopular,
		displayOrder: displayOrder,
		createdBy:    createdBy,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (p *Plan) ID() uint {
	return p.id
}

// SetID assigns the database identity after insertion.
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID already set")
	}
	p.id = id
	return nil
}

func (p *Plan) SID() string {
	return p.sid
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) PriceCents() uint64 {
	return p.priceCents
}

func (p *Plan) Currency() string {
	return p.currency
}

func (p *Plan) BillingCycle() vo.BillingCycle {
	return p.billingCycle
}

func (p *Plan) Limits() map[string]interface{} {
	return p.limits
}

func (p *Plan) Features() []string {
	return p.features
}

func (p *Plan) Status() PlanStatus {
	return p.status
}

func (p *Plan) IsPopular() bool {
	return p.isPopular
}

func (p *Plan) DisplayOrder() int {
	return p.displayOrder
}

func (p *Plan) CreatedBy() string {
	return p.createdBy
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsActive reports whether the plan can be assigned or resolved against.
func (p *Plan) IsActive() bool {
	return p.status == PlanStatusActive
}

// IsFree reports whether this is the default Free tier.
func (p *Plan) IsFree() bool {
	return p.name == FreePlanName
}

func (p *Plan) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("plan name too long (max 100 characters)")
	}
	p.name = name
	p.updatedAt = time.Now()
	return nil
}

func (p *Plan) UpdateDescription(description string) {
	p.description = description
	p.updatedAt = time.Now()
}

func (p *Plan) UpdatePricing(priceCents uint64, currency string, billingCycle vo.BillingCycle) error {
	if !validCurrencies[currency] {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	if !billingCycle.IsValid() {
		return fmt.Errorf("invalid billing cycle: %s", billingCycle)
	}
	p.priceCents = priceCents
	p.currency = currency
	p.billingCycle = billingCycle
	p.updatedAt = time.Now()
	return nil
}

func (p *Plan) UpdateLimits(limits map[string]interface{}) {
	if limits == nil {
		limits = make(map[string]interface{})
	}
	p.limits = limits
	p.updatedAt = time.Now()
}

func (p *Plan) UpdateFeatures(features []string) {
	if features == nil {
		features = []string{}
	}
	p.features = features
	p.updatedAt = time.Now()
}

func (p *Plan) UpdateDisplay(isPopular bool, displayOrder int) {
	p.isPopular = isPopular
	p.displayOrder = displayOrder
	p.updatedAt = time.Now()
}

func (p *Plan) ChangeStatus(status PlanStatus) error {
	if !validPlanStatuses[status] {
		return fmt.Errorf("invalid plan status: %s", status)
	}
	p.status = status
	p.updatedAt = time.Now()
	return nil
}
