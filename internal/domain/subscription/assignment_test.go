package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "krona/internal/domain/subscription/valueobjects"
)

func newImmediateAssignment(t *testing.T) *PlanAssignment {
	t.Helper()
	a, err := NewPlanAssignment("asg_test1", 1, 2, vo.AssignmentImmediate, nil,
		vo.DurationPermanent, nil, "", "admin@krona")
	require.NoError(t, err)
	return a
}

func TestNewPlanAssignment_Immediate(t *testing.T) {
	a := newImmediateAssignment(t)

	assert.Equal(t, vo.AssignmentImmediate, a.AssignmentType())
	assert.Equal(t, vo.DurationPermanent, a.DurationType())
	assert.False(t, a.IsApplied())
	assert.Nil(t, a.AppliedAt())
	assert.Nil(t, a.ScheduledDate())
}

func TestNewPlanAssignment_ScheduledRequiresDate(t *testing.T) {
	a, err := NewPlanAssignment("asg_x", 1, 2, vo.AssignmentScheduled, nil,
		vo.DurationPermanent, nil, "", "admin")
	assert.ErrorIs(t, err, ErrMissingScheduledDate)
	assert.Nil(t, a)

	date := time.Now().AddDate(0, 0, 3)
	a, err = NewPlanAssignment("asg_y", 1, 2, vo.AssignmentScheduled, &date,
		vo.DurationPermanent, nil, "", "admin")
	require.NoError(t, err)
	assert.Equal(t, &date, a.ScheduledDate())
}

func TestNewPlanAssignment_TemporaryRequiresEndDate(t *testing.T) {
	a, err := NewPlanAssignment("asg_x", 1, 2, vo.AssignmentImmediate, nil,
		vo.DurationTemporary, nil, "", "admin")
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestPlanAssignment_MarkApplied(t *testing.T) {
	a := newImmediateAssignment(t)
	now := time.Now().UTC()

	require.NoError(t, a.MarkApplied(now))
	assert.True(t, a.IsApplied())
	require.NotNil(t, a.AppliedAt())
	assert.Equal(t, now, *a.AppliedAt())

	err := a.MarkApplied(now)
	assert.ErrorIs(t, err, ErrAssignmentAlreadyApplied)
}

func TestPlanAssignment_IsDue(t *testing.T) {
	now := time.Now().UTC()

	immediate := newImmediateAssignment(t)
	assert.True(t, immediate.IsDue(now))

	past := now.Add(-time.Hour)
	due, err := NewPlanAssignment("asg_due", 1, 2, vo.AssignmentScheduled, &past,
		vo.DurationPermanent, nil, "", "admin")
	require.NoError(t, err)
	assert.True(t, due.IsDue(now))

	future := now.Add(time.Hour)
	notDue, err := NewPlanAssignment("asg_later", 1, 2, vo.AssignmentScheduled, &future,
		vo.DurationPermanent, nil, "", "admin")
	require.NoError(t, err)
	assert.False(t, notDue.IsDue(now))

	require.NoError(t, immediate.MarkApplied(now))
	assert.False(t, immediate.IsDue(now))
}
