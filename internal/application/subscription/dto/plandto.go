package dto

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"krona/internal/domain/subscription"
)

// PlanDTO is the API representation of a pricing plan.
type PlanDTO struct {
	SID          string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	PriceCents   uint64                 `json:"price_cents"`
	PriceDisplay string                 `json:"price_display"`
	Currency     string                 `json:"currency"`
	BillingCycle string                 `json:"billing_cycle"`
	Limits       map[string]interface{} `json:"limits"`
	Features     []string               `json:"features"`
	Status       string                 `json:"status"`
	IsPopular    bool                   `json:"is_popular"`
	DisplayOrder int                    `json:"display_order"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a cent amount with its currency symbol, falling back
// to a plain "12.34 XYZ" form for unknown ISO codes.
func FormatAmount(cents uint64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%.2f %s", float64(cents)/100, code)
	}
	return amountPrinter.Sprintf("%v", currency.Symbol(unit.Amount(float64(cents)/100)))
}

func NewPlanDTO(plan *subscription.Plan) *PlanDTO {
	if plan == nil {
		return nil
	}
	return &PlanDTO{
		SID:          plan.SID(),
		Name:         plan.Name(),
		Description:  plan.Description(),
		PriceCents:   plan.PriceCents(),
		PriceDisplay: FormatAmount(plan.PriceCents(), plan.Currency()),
		Currency:     plan.Currency(),
		BillingCycle: plan.BillingCycle().String(),
		Limits:       plan.Limits(),
		Features:     plan.Features(),
		Status:       string(plan.Status()),
		IsPopular:    plan.IsPopular(),
		DisplayOrder: plan.DisplayOrder(),
		CreatedAt:    plan.CreatedAt(),
		UpdatedAt:    plan.UpdatedAt(),
	}
}

func NewPlanDTOs(plans []*subscription.Plan) []*PlanDTO {
	dtos := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, NewPlanDTO(p))
	}
	return dtos
}
