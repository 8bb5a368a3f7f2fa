package models

import (
	"time"

	"krona/internal/shared/constants"
)

// BillingSequenceModel backs the year-scoped ledger reference allocator. One
// row per year, incremented under a row lock.
type BillingSequenceModel struct {
	Year      int    `gorm:"primarykey;autoIncrement:false"`
	Value     uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (BillingSequenceModel) TableName() string {
	return constants.TableBillingSequences
}
