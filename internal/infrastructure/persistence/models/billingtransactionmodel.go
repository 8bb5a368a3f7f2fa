package models

import (
	"time"

	"krona/internal/shared/constants"
)

// BillingTransactionModel represents the database persistence model for the
// billing ledger
type BillingTransactionModel struct {
	ID                 uint   `gorm:"primarykey"`
	SID                string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: btx_xxx"`
	Reference          string `gorm:"uniqueIndex;not null;size:30;comment:ledger reference TXN-<year>-<seq>"`
	MerchantID         uint   `gorm:"not null;index:idx_merchant_transaction"`
	PlanID             uint   `gorm:"not null;index:idx_plan_transaction"`
	SubscriptionID     *uint  `gorm:"index:idx_subscription_transaction"`
	AmountCents        uint64 `gorm:"not null;default:0"`
	Currency           string `gorm:"not null;size:3"`
	PaymentReference   string `gorm:"size:200"`
	PaymentMethod      string `gorm:"size:50"`
	Status             string `gorm:"not null;size:20;default:pending;index:idx_transaction_status"`
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time
	ProcessedAt        *time.Time
	ProcessedBy        *string `gorm:"size:100"`
	Notes              string  `gorm:"size:1000"`
	CreatedAt          time.Time `gorm:"index:idx_transaction_created"`
	UpdatedAt          time.Time
}

// TableName specifies the table name for GORM
func (BillingTransactionModel) TableName() string {
	return constants.TableBillingTransactions
}
