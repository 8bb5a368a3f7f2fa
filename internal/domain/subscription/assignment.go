package subscription

import (
	"fmt"
	"time"

	vo "krona/internal/domain/subscription/valueobjects"
)

// PlanAssignment records an administrator's decision to put a merchant on a
// plan. Applying the assignment is what actually rewrites the merchant's
// subscription; an assignment is applied at most once.
type PlanAssignment struct {
	id             uint
	sid            string
	merchantID     uint
	planID         uint
	assignmentType vo.AssignmentType
	scheduledDate  *time.Time
	durationType   vo.DurationType
	endDate        *time.Time
	notes          string
	assignedBy     string
	isApplied      bool
	appliedAt      *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewPlanAssignment(sid string, merchantID, planID uint,
	assignmentType vo.AssignmentType, scheduledDate *time.Time,
	durationType vo.DurationType, endDate *time.Time,
	notes, assignedBy string) (*PlanAssignment, error) {

	if sid == "" {
		return nil, fmt.Errorf("assignment sid is required")
	}
	if merchantID == 0 {
		return nil, fmt.Errorf("merchant ID is required")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidAssignmentTypes[assignmentType] {
		return nil, fmt.Errorf("invalid assignment type: %s", assignmentType)
	}
	if !vo.ValidDurationTypes[durationType] {
		return nil, fmt.Errorf("invalid duration type: %s", durationType)
	}
	if assignmentType == vo.AssignmentScheduled && scheduledDate == nil {
		return nil, ErrMissingScheduledDate
	}
	if durationType == vo.DurationTemporary && endDate == nil {
		return nil, fmt.Errorf("temporary assignment requires an end date")
	}
	if assignedBy == "" {
		return nil, fmt.Errorf("assigned by is required")
	}

	now := time.Now()
	return &PlanAssignment{
		sid:            sid,
		merchantID:     merchantID,
		planID:         planID,
		assignmentType: assignmentType,
		scheduledDate:  scheduledDate,
		durationType:   durationType,
		endDate:        endDate,
		notes:          notes,
		assignedBy:     assignedBy,
		isApplied:      false,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructPlanAssignment(id uint, sid string, merchantID, planID uint,
	assignmentType vo.AssignmentType, scheduledDate *time.Time,
	durationType vo.DurationType, endDate *time.Time,
	notes, assignedBy string, isApplied bool, appliedAt *time.Time,
	createdAt, updatedAt time.Time) (*PlanAssignment, error) {

	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if !vo.ValidAssignmentTypes[assignmentType] {
		return nil, fmt.Errorf("invalid assignment type: %s", assignmentType)
	}
	if !vo.ValidDurationTypes[durationType] {
		return nil, fmt.Errorf("invalid duration type: %s", durationType)
	}

	return &PlanAssignment{
		id:             id,
		sid:            sid,
		merchantID:     merchantID,
		planID:         planID,
		assignmentType: assignmentType,
		scheduledDate:  scheduledDate,
		durationType:   durationType,
		endDate:        endDate,
		notes:          notes,
		assignedBy:     assignedBy,
		isApplied:      isApplied,
		appliedAt:      appliedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (a *PlanAssignment) ID() uint {
	return a.id
}

// SetID assigns the database identity after insertion.
func (a *PlanAssignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID already set")
	}
	a.id = id
	return nil
}

func (a *PlanAssignment) SID() string {
	return a.sid
}

func (a *PlanAssignment) MerchantID() uint {
	return a.merchantID
}

func (a *PlanAssignment) PlanID() uint {
	return a.planID
}

func (a *PlanAssignment) AssignmentType() vo.AssignmentType {
	return a.assignmentType
}

func (a *PlanAssignment) ScheduledDate() *time.Time {
	return a.scheduledDate
}

func (a *PlanAssignment) DurationType() vo.DurationType {
	return a.durationType
}

func (a *PlanAssignment) EndDate() *time.Time {
	return a.endDate
}

func (a *PlanAssignment) Notes() string {
	return a.notes
}

func (a *PlanAssignment) AssignedBy() string {
	return a.assignedBy
}

func (a *PlanAssignment) IsApplied() bool {
	return a.isApplied
}

func (a *PlanAssignment) AppliedAt() *time.Time {
	return a.appliedAt
}

func (a *PlanAssignment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *PlanAssignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// IsDue reports whether a scheduled assignment is ready to apply.
func (a *PlanAssignment) IsDue(now time.Time) bool {
	if a.isApplied {
		return false
	}
	if a.assignmentType == vo.AssignmentImmediate {
		return true
	}
	return a.scheduledDate != nil && !a.scheduledDate.After(now)
}

// MarkApplied records the successful application of the assignment. It
// refuses to apply twice.
func (a *PlanAssignment) MarkApplied(now time.Time) error {
	if a.isApplied {
		return ErrAssignmentAlreadyApplied
	}
	a.isApplied = true
	a.appliedAt = &now
	a.updatedAt = now
	return nil
}
