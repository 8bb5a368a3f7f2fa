package models

import (
	"time"

	"gorm.io/gorm"

	"krona/internal/shared/constants"
)

// MerchantModel represents the database persistence model for merchants
type MerchantModel struct {
	ID          uint   `gorm:"primarykey"`
	SID         string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: mch_xxx"`
	Name        string `gorm:"not null;size:200"`
	Status      string `gorm:"not null;size:20;default:active;index:idx_merchant_status"`
	OwnerEmail  string `gorm:"not null;size:255"`
	OwnerUserID *uint  `gorm:"index:idx_merchant_owner"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (MerchantModel) TableName() string {
	return constants.TableMerchants
}
