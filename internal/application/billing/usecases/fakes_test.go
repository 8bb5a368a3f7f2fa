package usecases

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	subscriptionusecases "krona/internal/application/subscription/usecases"
	"krona/internal/domain/billing"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

// In-memory fakes for the billing use case tests. The subscription side
// carries full fakes as well because payment verification drives a real
// AssignPlanUseCase.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	nextID       uint
	transactions map[uint]*billing.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{nextID: 1, transactions: map[uint]*billing.Transaction{}}
}

func (f *fakeTransactionRepo) Create(ctx context.Context, tx *billing.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := tx.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.transactions[tx.ID()] = tx
	return nil
}

func (f *fakeTransactionRepo) GetByID(ctx context.Context, id uint) (*billing.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transactions[id], nil
}

func (f *fakeTransactionRepo) GetBySID(ctx context.Context, sid string) (*billing.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.transactions {
		if tx.SID() == sid {
			return tx, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepo) GetByReference(ctx context.Context, reference string) (*billing.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.transactions {
		if tx.Reference() == reference {
			return tx, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactionRepo) Update(ctx context.Context, tx *billing.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[tx.ID()]; !ok {
		return billing.ErrTransactionNotFound
	}
	f.transactions[tx.ID()] = tx
	return nil
}

func (f *fakeTransactionRepo) sorted() []*billing.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*billing.Transaction, 0, len(f.transactions))
	for _, tx := range f.transactions {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fakeTransactionRepo) List(ctx context.Context, filter billing.TransactionFilter) ([]*billing.Transaction, int64, error) {
	var out []*billing.Transaction
	for _, tx := range f.sorted() {
		if filter.MerchantID != nil && tx.MerchantID() != *filter.MerchantID {
			continue
		}
		if filter.PlanID != nil && tx.PlanID() != *filter.PlanID {
			continue
		}
		if filter.Status != nil && tx.Status().String() != *filter.Status {
			continue
		}
		out = append(out, tx)
	}
	return out, int64(len(out)), nil
}

func (f *fakeTransactionRepo) FindStalePending(ctx context.Context, cutoff time.Time) ([]*billing.Transaction, error) {
	var out []*billing.Transaction
	for _, tx := range f.sorted() {
		if tx.Status() == billing.StatusPending && tx.CreatedAt().Before(cutoff) {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeSequenceAllocator struct {
	mu     sync.Mutex
	values map[int]uint64
}

func newFakeSequenceAllocator() *fakeSequenceAllocator {
	return &fakeSequenceAllocator{values: map[int]uint64{}}
}

func (f *fakeSequenceAllocator) Next(ctx context.Context, year int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[year]++
	return f.values[year], nil
}

type fakeMerchantRepo struct {
	mu        sync.Mutex
	nextID    uint
	merchants map[uint]*merchant.Merchant
}

func newFakeMerchantRepo() *fakeMerchantRepo {
	return &fakeMerchantRepo{nextID: 1, merchants: map[uint]*merchant.Merchant{}}
}

func (f *fakeMerchantRepo) Create(ctx context.Context, m *merchant.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := m.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.merchants[m.ID()] = m
	return nil
}

func (f *fakeMerchantRepo) GetByID(ctx context.Context, id uint) (*merchant.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.merchants[id], nil
}

func (f *fakeMerchantRepo) GetBySID(ctx context.Context, sid string) (*merchant.Merchant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.merchants {
		if m.SID() == sid {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMerchantRepo) Update(ctx context.Context, m *merchant.Merchant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.merchants[m.ID()] = m
	return nil
}

func (f *fakeMerchantRepo) List(ctx context.Context, filter merchant.Filter) ([]*merchant.Merchant, int64, error) {
	return nil, 0, nil
}

func (f *fakeMerchantRepo) LockForUpdate(ctx context.Context, id uint) (*merchant.Merchant, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeMerchantRepo) ListActiveWithoutActiveSubscription(ctx context.Context, offset, limit int) ([]*merchant.Merchant, error) {
	return nil, nil
}

func (f *fakeMerchantRepo) CountActiveWithoutActiveSubscription(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakePlanRepo struct {
	mu     sync.Mutex
	nextID uint
	plans  map[uint]*subscription.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{nextID: 1, plans: map[uint]*subscription.Plan{}}
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *subscription.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := plan.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.plans[plan.ID()] = plan
	return nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plans[id], nil
}

func (f *fakePlanRepo) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.SID() == sid {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) GetByName(ctx context.Context, name string) (*subscription.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *subscription.Plan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans[plan.ID()] = plan
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plans, id)
	return nil
}

func (f *fakePlanRepo) List(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, int64, error) {
	return nil, 0, nil
}

func (f *fakePlanRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	p, _ := f.GetByName(ctx, name)
	return p != nil, nil
}

type fakeSubscriptionRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*subscription.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{nextID: 1, subs: map[uint]*subscription.Subscription{}}
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := sub.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.subs[sub.ID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[id], nil
}

func (f *fakeSubscriptionRepo) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub.ID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) GetActiveByMerchantID(ctx context.Context, merchantID uint) (*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.MerchantID() == merchantID && s.IsActive() {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) ListActiveByMerchantID(ctx context.Context, merchantID uint) ([]*subscription.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range f.subs {
		if s.MerchantID() == merchantID && s.IsActive() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) FindExpiring(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindExpired(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) ListActiveByPlanID(ctx context.Context, planID uint, offset, limit int) ([]*subscription.Subscription, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) CountActiveByPlanID(ctx context.Context, planID uint) (int64, error) {
	return 0, nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	nextID      uint
	assignments map[uint]*subscription.PlanAssignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{nextID: 1, assignments: map[uint]*subscription.PlanAssignment{}}
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a *subscription.PlanAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := a.SetID(f.nextID); err != nil {
		return err
	}
	f.nextID++
	f.assignments[a.ID()] = a
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (*subscription.PlanAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignments[id], nil
}

func (f *fakeAssignmentRepo) GetBySID(ctx context.Context, sid string) (*subscription.PlanAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.assignments {
		if a.SID() == sid {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, a *subscription.PlanAssignment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments[a.ID()] = a
	return nil
}

func (f *fakeAssignmentRepo) DeleteStaleUnapplied(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// stubVerifier answers every request with a fixed result.
type stubVerifier struct {
	result  VerifyResult
	err     error
	calls   []VerifyRequest
	callsMu sync.Mutex
}

func (v *stubVerifier) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	v.callsMu.Lock()
	v.calls = append(v.calls, req)
	v.callsMu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	result := v.result
	return &result, nil
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any)                   {}
func (noopLogger) Info(msg string, args ...any)                    {}
func (noopLogger) Warn(msg string, args ...any)                    {}
func (noopLogger) Error(msg string, args ...any)                   {}
func (l noopLogger) With(args ...any) logger.Interface             { return l }
func (l noopLogger) Named(name string) logger.Interface            { return l }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

type billingTestEnv struct {
	transactions *fakeTransactionRepo
	allocator    *fakeSequenceAllocator
	merchants    *fakeMerchantRepo
	plans        *fakePlanRepo
	subs         *fakeSubscriptionRepo
	assignments  *fakeAssignmentRepo
	log          logger.Interface
}

func newBillingTestEnv() *billingTestEnv {
	return &billingTestEnv{
		transactions: newFakeTransactionRepo(),
		allocator:    newFakeSequenceAllocator(),
		merchants:    newFakeMerchantRepo(),
		plans:        newFakePlanRepo(),
		subs:         newFakeSubscriptionRepo(),
		assignments:  newFakeAssignmentRepo(),
		log:          noopLogger{},
	}
}

func (e *billingTestEnv) assignPlanUC() *subscriptionusecases.AssignPlanUseCase {
	applyUC := subscriptionusecases.NewApplyAssignmentUseCase(&fakeTxManager{},
		e.merchants, e.plans, e.subs, e.assignments, e.log)
	return subscriptionusecases.NewAssignPlanUseCase(e.merchants, e.plans, e.assignments, applyUC, e.log)
}

func (e *billingTestEnv) createTransactionUC() *CreateTransactionUseCase {
	return NewCreateTransactionUseCase(&fakeTxManager{}, e.transactions, e.allocator,
		e.merchants, e.plans, e.log)
}

func (e *billingTestEnv) seedMerchant(t *testing.T, name string) *merchant.Merchant {
	t.Helper()
	m, err := merchant.NewMerchant(id.NewMerchantSID(), name, name+"@example.com", nil)
	require.NoError(t, err)
	require.NoError(t, e.merchants.Create(context.Background(), m))
	return m
}

func (e *billingTestEnv) seedPlan(t *testing.T, name string, priceCents uint64) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan(id.NewPlanSID(), name, "", priceCents, "USD", vo.BillingCycleMonthly, "admin")
	require.NoError(t, err)
	require.NoError(t, e.plans.Create(context.Background(), p))
	return p
}

func (e *billingTestEnv) seedPendingTransaction(t *testing.T, m *merchant.Merchant, plan *subscription.Plan, paymentRef string) *billing.Transaction {
	t.Helper()
	result, err := e.createTransactionUC().Execute(context.Background(), CreateTransactionCommand{
		MerchantSID:      m.SID(),
		PlanSID:          plan.SID(),
		AmountCents:      plan.PriceCents(),
		Currency:         plan.Currency(),
		PaymentReference: paymentRef,
		PaymentMethod:    "bank_transfer",
	})
	require.NoError(t, err)
	tx, err := e.transactions.GetByReference(context.Background(), result.Reference)
	require.NoError(t, err)
	require.NotNil(t, tx)
	return tx
}
