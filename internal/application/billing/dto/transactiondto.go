package dto

import (
	"time"

	subscriptiondto "krona/internal/application/subscription/dto"
	"krona/internal/domain/billing"
)

// TransactionDTO is the API representation of a billing ledger entry.
type TransactionDTO struct {
	SID                string     `json:"id"`
	Reference          string     `json:"reference"`
	MerchantSID        string     `json:"merchant_id,omitempty"`
	PlanSID            string     `json:"plan_id,omitempty"`
	SubscriptionID     *uint      `json:"subscription_id,omitempty"`
	AmountCents        uint64     `json:"amount_cents"`
	AmountDisplay      string     `json:"amount_display"`
	Currency           string     `json:"currency"`
	PaymentReference   string     `json:"payment_reference,omitempty"`
	PaymentMethod      string     `json:"payment_method,omitempty"`
	Status             string     `json:"status"`
	BillingPeriodStart *time.Time `json:"billing_period_start,omitempty"`
	BillingPeriodEnd   *time.Time `json:"billing_period_end,omitempty"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
	ProcessedBy        *string    `json:"processed_by,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func NewTransactionDTO(tx *billing.Transaction, merchantSID, planSID string) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		SID:                tx.SID(),
		Reference:          tx.Reference(),
		MerchantSID:        merchantSID,
		PlanSID:            planSID,
		SubscriptionID:     tx.SubscriptionID(),
		AmountCents:        tx.AmountCents(),
		AmountDisplay:      subscriptiondto.FormatAmount(tx.AmountCents(), tx.Currency()),
		Currency:           tx.Currency(),
		PaymentReference:   tx.PaymentReference(),
		PaymentMethod:      tx.PaymentMethod(),
		Status:             tx.Status().String(),
		BillingPeriodStart: tx.BillingPeriodStart(),
		BillingPeriodEnd:   tx.BillingPeriodEnd(),
		ProcessedAt:        tx.ProcessedAt(),
		ProcessedBy:        tx.ProcessedBy(),
		Notes:              tx.Notes(),
		CreatedAt:          tx.CreatedAt(),
	}
}
