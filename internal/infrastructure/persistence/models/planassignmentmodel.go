package models

import (
	"time"

	"krona/internal/shared/constants"
)

// PlanAssignmentModel represents the database persistence model for plan assignments
type PlanAssignmentModel struct {
	ID             uint   `gorm:"primarykey"`
	SID            string `gorm:"uniqueIndex;not null;size:50;comment:Stripe-style ID: asg_xxx"`
	MerchantID     uint   `gorm:"not null;index:idx_merchant_assignment"`
	PlanID         uint   `gorm:"not null;index:idx_plan_assignment"`
	AssignmentType string `gorm:"not null;size:20"`
	ScheduledDate  *time.Time
	DurationType   string `gorm:"not null;size:20;default:permanent"`
	EndDate        *time.Time
	Notes          string `gorm:"size:1000"`
	AssignedBy     string `gorm:"not null;size:100"`
	IsApplied      bool   `gorm:"not null;default:false;index:idx_assignment_applied"`
	AppliedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PlanAssignmentModel) TableName() string {
	return constants.TablePlanAssignments
}
