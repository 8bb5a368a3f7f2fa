package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"krona/internal/shared/constants"
)

// PlanModel represents the database persistence model for pricing plans
type PlanModel struct {
	ID           uint   `gorm:"primarykey"`
	SID          string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: plan_xxx"`
	Name         string `gorm:"uniqueIndex;not null;size:100"`
	Description  string `gorm:"size:1000"`
	PriceCents   uint64 `gorm:"not null;default:0"`
	Currency     string `gorm:"not null;size:3;default:USD"`
	BillingCycle string `gorm:"not null;size:20;default:monthly"`
	Limits       datatypes.JSON
	Features     datatypes.JSON
	Status       string `gorm:"not null;size:20;default:active;index:idx_plan_status"`
	IsPopular    bool   `gorm:"default:false"`
	DisplayOrder int    `gorm:"not null;default:0"`
	CreatedBy    string `gorm:"size:100"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
