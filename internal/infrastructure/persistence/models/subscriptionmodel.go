package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"krona/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID                 uint      `gorm:"primarykey"`
	SID                string    `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: sub_xxx"`
	MerchantID         uint      `gorm:"not null;index:idx_merchant_subscription"`
	PlanID             uint      `gorm:"not null;index:idx_plan_subscription"`
	Status             string    `gorm:"not null;size:20;index:idx_subscription_status"`
	StartDate          time.Time `gorm:"not null"`
	EndDate            *time.Time `gorm:"index:idx_end_date"`
	NextBillingDate    *time.Time
	PriceCents         uint64 `gorm:"not null;default:0"`
	BillingCycle       string `gorm:"not null;size:20"`
	CancelledAt        *time.Time
	CancelledBy        *string `gorm:"size:100"`
	CancellationReason *string `gorm:"size:500"`
	Metadata           datatypes.JSON
	Version            int `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
