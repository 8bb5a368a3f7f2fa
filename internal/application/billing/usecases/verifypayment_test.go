package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subscriptionusecases "krona/internal/application/subscription/usecases"
	"krona/internal/domain/billing"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	apperrors "krona/internal/shared/errors"
)

func (e *billingTestEnv) verifyPaymentUC(verifier PaymentVerifier) *VerifyPaymentUseCase {
	return NewVerifyPaymentUseCase(&fakeTxManager{}, e.transactions, e.merchants, e.plans,
		e.subs, verifier, e.assignPlanUC(), e.log)
}

func TestVerifyPayment_VerifiedActivatesPlan(t *testing.T) {
	env := newBillingTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900)
	tx := env.seedPendingTransaction(t, m, plan, "swish-777")

	verifier := &stubVerifier{result: VerifyResult{Verified: true}}
	uc := env.verifyPaymentUC(verifier)

	result, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference:   tx.Reference(),
		Provider:    "swish",
		ProcessedBy: "admin",
	})
	require.NoError(t, err)
	assert.True(t, result.Verified)
	assert.Equal(t, billing.StatusVerified.String(), result.Transaction.Status)

	// The verifier was asked about the payment reference, not the ledger one.
	require.Len(t, verifier.calls, 1)
	assert.Equal(t, "swish-777", verifier.calls[0].Reference)
	assert.Equal(t, uint64(2900), verifier.calls[0].AmountCents)

	// The merchant landed on the paid plan.
	active, err := env.subs.GetActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, plan.ID(), active.PlanID())

	// The ledger entry links to the subscription it paid for.
	stored, err := env.transactions.GetByReference(context.Background(), tx.Reference())
	require.NoError(t, err)
	require.NotNil(t, stored.SubscriptionID())
	assert.Equal(t, active.ID(), *stored.SubscriptionID())
}

func TestVerifyPayment_NotVerifiedLeavesPending(t *testing.T) {
	env := newBillingTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900)
	tx := env.seedPendingTransaction(t, m, plan, "swish-777")

	uc := env.verifyPaymentUC(&stubVerifier{result: VerifyResult{Verified: false}})

	result, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference:   tx.Reference(),
		Provider:    "swish",
		ProcessedBy: "admin",
	})
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, billing.StatusPending.String(), result.Transaction.Status)

	// No plan activation happened.
	active, err := env.subs.GetActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestVerifyPayment_ReplacesCurrentPlan(t *testing.T) {
	env := newBillingTestEnv()
	m := env.seedMerchant(t, "acme")
	starter := env.seedPlan(t, "Starter", 900)
	pro := env.seedPlan(t, "Pro", 2900)

	// Put the merchant on Starter first.
	_, err := env.assignPlanUC().Execute(context.Background(), subscriptionAssign(m.SID(), starter.SID()))
	require.NoError(t, err)

	tx := env.seedPendingTransaction(t, m, pro, "swish-888")
	uc := env.verifyPaymentUC(&stubVerifier{result: VerifyResult{Verified: true}})

	_, err = uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference:   tx.Reference(),
		Provider:    "swish",
		ProcessedBy: "admin",
	})
	require.NoError(t, err)

	active, err := env.subs.ListActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, pro.ID(), active[0].PlanID())
}

func TestVerifyPayment_SettledTransactionConflicts(t *testing.T) {
	env := newBillingTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900)
	tx := env.seedPendingTransaction(t, m, plan, "swish-777")

	verifier := &stubVerifier{result: VerifyResult{Verified: true}}
	uc := env.verifyPaymentUC(verifier)

	_, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference: tx.Reference(), Provider: "swish", ProcessedBy: "admin",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference: tx.Reference(), Provider: "swish", ProcessedBy: "admin",
	})
	assert.True(t, apperrors.IsConflictError(err))
	assert.Len(t, verifier.calls, 1)
}

func TestVerifyPayment_RejectedAssignmentLeavesTransactionPending(t *testing.T) {
	env := newBillingTestEnv()
	m := env.seedMerchant(t, "acme")
	plan := env.seedPlan(t, "Pro", 2900)
	tx := env.seedPendingTransaction(t, m, plan, "swish-777")

	// The plan goes inactive between the ledger entry and the verification.
	require.NoError(t, plan.ChangeStatus(subscription.PlanStatusInactive))
	require.NoError(t, env.plans.Update(context.Background(), plan))

	uc := env.verifyPaymentUC(&stubVerifier{result: VerifyResult{Verified: true}})

	_, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference: tx.Reference(), Provider: "swish", ProcessedBy: "admin",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidStateError(err))

	// The ledger entry is untouched and the merchant got no subscription.
	stored, err := env.transactions.GetByReference(context.Background(), tx.Reference())
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, stored.Status())
	active, err := env.subs.GetActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	assert.Nil(t, active)

	// Once the plan is active again the same verification goes through.
	require.NoError(t, plan.ChangeStatus(subscription.PlanStatusActive))
	require.NoError(t, env.plans.Update(context.Background(), plan))

	result, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference: tx.Reference(), Provider: "swish", ProcessedBy: "admin",
	})
	require.NoError(t, err)
	assert.True(t, result.Verified)
	active, err = env.subs.GetActiveByMerchantID(context.Background(), m.ID())
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, plan.ID(), active.PlanID())
}

func TestVerifyPayment_NotFound(t *testing.T) {
	env := newBillingTestEnv()
	uc := env.verifyPaymentUC(&stubVerifier{})

	_, err := uc.Execute(context.Background(), VerifyPaymentCommand{
		Reference: "TXN-2026-999", Provider: "swish", ProcessedBy: "admin",
	})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func subscriptionAssign(merchantSID, planSID string) subscriptionusecases.AssignPlanCommand {
	return subscriptionusecases.AssignPlanCommand{
		MerchantSID:    merchantSID,
		PlanSID:        planSID,
		AssignmentType: vo.AssignmentImmediate.String(),
		DurationType:   vo.DurationPermanent.String(),
		AssignedBy:     "admin",
	}
}
