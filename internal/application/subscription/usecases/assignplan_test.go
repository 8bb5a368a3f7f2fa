package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/shared/biztime"
	apperrors "krona/internal/shared/errors"
	"krona/internal/shared/id"
)

func TestAssignPlan_ImmediateAppliesSynchronously(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	result, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "immediate",
		DurationType:   "permanent",
		AssignedBy:     "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Assignment)
	assert.True(t, result.Assignment.IsApplied)
	require.NotNil(t, result.Subscription)
	assert.Equal(t, vo.StatusActive.String(), result.Subscription.Status)
	assert.Nil(t, result.Subscription.EndDate)
	assert.NotNil(t, result.Subscription.NextBillingDate)

	stored, err := env.assignments.GetBySID(context.Background(), result.Assignment.SID)
	require.NoError(t, err)
	assert.True(t, stored.IsApplied())
	assert.NotNil(t, stored.AppliedAt())
}

func TestAssignPlan_ScheduledIsNotAppliedYet(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)
	scheduled := biztime.NowUTC().AddDate(0, 0, 3)

	result, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "scheduled",
		ScheduledDate:  &scheduled,
		DurationType:   "permanent",
		AssignedBy:     "admin",
	})
	require.NoError(t, err)
	assert.False(t, result.Assignment.IsApplied)
	assert.Nil(t, result.Subscription)

	active, err := env.subs.GetActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestAssignPlan_ScheduledRequiresDate(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	_, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "scheduled",
		DurationType:   "permanent",
		AssignedBy:     "admin",
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestAssignPlan_InactivePlanRejected(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Legacy", 1900, vo.BillingCycleMonthly)
	require.NoError(t, plan.ChangeStatus("inactive"))
	require.NoError(t, env.plans.Update(context.Background(), plan))

	_, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "immediate",
		AssignedBy:     "admin",
	})
	assert.True(t, apperrors.IsInvalidStateError(err))
}

func TestAssignPlan_MerchantNotFound(t *testing.T) {
	env := newTestEnv()
	plan := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	_, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    "mch_missing",
		PlanSID:        plan.SID(),
		AssignmentType: "immediate",
		AssignedBy:     "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestApplyAssignment_CancelsAllActiveSubscriptions(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	old := env.seedPlan(t, "Starter", 900, vo.BillingCycleMonthly)
	next := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	// Two active rows simulate drift from a past bug. Apply repairs both.
	first := env.seedActiveSubscription(t, m, old, nil)
	second := env.seedActiveSubscription(t, m, old, nil)

	result, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        next.SID(),
		AssignmentType: "immediate",
		DurationType:   "permanent",
		AssignedBy:     "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Subscription)

	active, err := env.subs.ListActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, result.Subscription.SID, active[0].SID())
	assert.Equal(t, next.ID(), active[0].PlanID())

	for _, sid := range []string{first.SID(), second.SID()} {
		sub, err := env.subs.GetBySID(context.Background(), sid)
		require.NoError(t, err)
		assert.Equal(t, vo.StatusCancelled, sub.Status())
		require.NotNil(t, sub.CancellationReason())
		assert.Equal(t, "Plan changed by admin", *sub.CancellationReason())
	}
}

func TestApplyAssignment_SecondApplyConflicts(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	result, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "immediate",
		DurationType:   "permanent",
		AssignedBy:     "admin",
	})
	require.NoError(t, err)

	_, err = env.applyUC().Execute(context.Background(), result.Assignment.SID)
	assert.True(t, apperrors.IsConflictError(err))

	// The replay must not have produced another subscription.
	active, err := env.subs.ListActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestApplyAssignment_TemporaryKeepsEndDate(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Trial", 2900, vo.BillingCycleMonthly)
	end := biztime.NowUTC().AddDate(0, 0, 14)

	result, err := env.assignUC().Execute(context.Background(), AssignPlanCommand{
		MerchantSID:    m.SID(),
		PlanSID:        plan.SID(),
		AssignmentType: "immediate",
		DurationType:   "temporary",
		EndDate:        &end,
		AssignedBy:     "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Subscription)
	require.NotNil(t, result.Subscription.EndDate)
	assert.True(t, result.Subscription.EndDate.Equal(end))
}

func TestApplyAssignment_NotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.applyUC().Execute(context.Background(), "pla_missing")
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestApplyAssignment_ConcurrentAppliesKeepSingleActive(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	starter := env.seedPlan(t, "Starter", 900, vo.BillingCycleMonthly)
	pro := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	// Two unapplied assignments for the same merchant. The merchant row lock
	// forces the applies to serialize: the second cancels whatever the first
	// activated, so exactly one subscription survives.
	var sids []string
	for _, plan := range []uint{starter.ID(), pro.ID()} {
		a, err := subscription.NewPlanAssignment(id.NewAssignmentSID(), m.ID(), plan,
			vo.AssignmentImmediate, nil, vo.DurationPermanent, nil, "", "admin")
		require.NoError(t, err)
		require.NoError(t, env.assignments.Create(context.Background(), a))
		sids = append(sids, a.SID())
	}

	table := newRowLockTable()
	merchants := &lockingMerchantRepo{fakeMerchantRepo: env.merchants, table: table}
	uc := NewApplyAssignmentUseCase(&lockingTxManager{}, merchants, env.plans,
		env.subs, env.assignments, env.log)

	var wg sync.WaitGroup
	errs := make([]error, len(sids))
	for i, sid := range sids {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), sid)
		}(i, sid)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	active, err := env.subs.ListActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Len(t, active, 1)

	for _, sid := range sids {
		a, err := env.assignments.GetBySID(context.Background(), sid)
		require.NoError(t, err)
		assert.True(t, a.IsApplied())
	}
}
