package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "krona/internal/shared/errors"
)

func TestCreatePlan(t *testing.T) {
	env := newTestEnv()
	uc := NewCreatePlanUseCase(env.plans, env.log)

	result, err := uc.Execute(context.Background(), CreatePlanCommand{
		Name:         "Pro",
		Description:  "For growing shops",
		PriceCents:   2900,
		Currency:     "USD",
		BillingCycle: "monthly",
		CreatedBy:    "admin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SID)
	assert.Equal(t, "Pro", result.Name)
	assert.Equal(t, "active", result.Status)
	assert.Equal(t, uint64(2900), result.PriceCents)
}

func TestCreatePlan_DuplicateName(t *testing.T) {
	env := newTestEnv()
	env.seedPlan(t, "Pro", 2900, "monthly")
	uc := NewCreatePlanUseCase(env.plans, env.log)

	_, err := uc.Execute(context.Background(), CreatePlanCommand{
		Name:         "Pro",
		PriceCents:   1900,
		Currency:     "USD",
		BillingCycle: "monthly",
		CreatedBy:    "admin",
	})
	assert.True(t, apperrors.IsConflictError(err))
}

func TestCreatePlan_InvalidBillingCycle(t *testing.T) {
	env := newTestEnv()
	uc := NewCreatePlanUseCase(env.plans, env.log)

	_, err := uc.Execute(context.Background(), CreatePlanCommand{
		Name:         "Pro",
		PriceCents:   2900,
		Currency:     "USD",
		BillingCycle: "fortnightly",
		CreatedBy:    "admin",
	})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestDeletePlan_WithActiveSubscribers(t *testing.T) {
	env := newTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900, "monthly")
	env.seedActiveSubscription(t, m, plan, nil)

	uc := NewDeletePlanUseCase(env.plans, env.subs, env.log)

	err := uc.Execute(context.Background(), plan.SID())
	assert.True(t, apperrors.IsConflictError(err))

	// Still there.
	stored, getErr := env.plans.GetBySID(context.Background(), plan.SID())
	require.NoError(t, getErr)
	assert.NotNil(t, stored)
}

func TestDeletePlan(t *testing.T) {
	env := newTestEnv()
	plan := env.seedPlan(t, "Legacy", 900, "monthly")

	uc := NewDeletePlanUseCase(env.plans, env.subs, env.log)

	require.NoError(t, uc.Execute(context.Background(), plan.SID()))

	stored, err := env.plans.GetBySID(context.Background(), plan.SID())
	require.NoError(t, err)
	assert.Nil(t, stored)
}
