package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
)

func TestListPlanMembers_PaidPlan(t *testing.T) {
	env := newTestEnv()
	paid := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)
	other := env.seedPlan(t, "Starter", 900, vo.BillingCycleMonthly)

	for i := 0; i < 3; i++ {
		m := env.seedMerchant(t, fmt.Sprintf("pro-%d", i))
		env.seedActiveSubscription(t, m, paid, nil)
	}
	m := env.seedMerchant(t, "starter-0")
	env.seedActiveSubscription(t, m, other, nil)

	uc := NewListPlanMembersUseCase(env.plans, env.subs, env.merchants, env.log)

	members, total, err := uc.Execute(context.Background(), paid.SID(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, members, 3)
	for _, member := range members {
		assert.False(t, member.Virtual)
		assert.NotEmpty(t, member.SubscriptionSID)
	}
}

func TestListPlanMembers_FreePlanSpansExplicitAndVirtual(t *testing.T) {
	env := newTestEnv()
	free := env.seedPlan(t, subscription.FreePlanName, 0, vo.BillingCycleMonthly)

	// Three merchants hold explicit Free subscriptions, seven more have no
	// subscription at all. The Free membership is ten merchants.
	for i := 0; i < 3; i++ {
		m := env.seedMerchant(t, fmt.Sprintf("explicit-%d", i))
		env.seedActiveSubscription(t, m, free, nil)
	}
	for i := 0; i < 7; i++ {
		env.seedMerchant(t, fmt.Sprintf("virtual-%d", i))
	}

	uc := NewListPlanMembersUseCase(env.plans, env.subs, env.merchants, env.log)

	// Page one crosses the seam: three explicit rows, then two virtual.
	page1, total, err := uc.Execute(context.Background(), free.SID(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	require.Len(t, page1, 5)
	for i, member := range page1 {
		if i < 3 {
			assert.False(t, member.Virtual, "member %d should be explicit", i)
			assert.NotEmpty(t, member.SubscriptionSID)
		} else {
			assert.True(t, member.Virtual, "member %d should be virtual", i)
			assert.Empty(t, member.SubscriptionSID)
			assert.Equal(t, vo.StatusActive.String(), member.Status)
		}
	}

	// Page two is entirely virtual.
	page2, total, err := uc.Execute(context.Background(), free.SID(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	require.Len(t, page2, 5)
	for _, member := range page2 {
		assert.True(t, member.Virtual)
	}

	// No merchant appears twice across the pages.
	seen := map[string]bool{}
	for _, member := range append(page1, page2...) {
		assert.False(t, seen[member.MerchantSID], "merchant %s listed twice", member.MerchantSID)
		seen[member.MerchantSID] = true
	}

	// Page three is past the end.
	page3, total, err := uc.Execute(context.Background(), free.SID(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Empty(t, page3)
}

func TestListPlanMembers_FreePlanExcludesPaidSubscribers(t *testing.T) {
	env := newTestEnv()
	free := env.seedPlan(t, subscription.FreePlanName, 0, vo.BillingCycleMonthly)
	paid := env.seedPlan(t, "Pro", 2900, vo.BillingCycleMonthly)

	onPaid := env.seedMerchant(t, "paying")
	env.seedActiveSubscription(t, onPaid, paid, nil)
	env.seedMerchant(t, "free-rider")

	uc := NewListPlanMembersUseCase(env.plans, env.subs, env.merchants, env.log)

	members, total, err := uc.Execute(context.Background(), free.SID(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, members, 1)
	assert.Equal(t, "free-rider", members[0].MerchantName)
	assert.True(t, members[0].Virtual)
}

func TestListPlanMembers_PlanNotFound(t *testing.T) {
	env := newTestEnv()
	uc := NewListPlanMembersUseCase(env.plans, env.subs, env.merchants, env.log)

	_, _, err := uc.Execute(context.Background(), "pln_missing", 1, 10)
	assert.True(t, apperrors.IsNotFoundError(err))
}
