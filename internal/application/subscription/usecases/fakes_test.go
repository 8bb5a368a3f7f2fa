package usecases

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"krona/internal/application/notification"
	"krona/internal/domain/merchant"
	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/shared/biztime"
	"krona/internal/shared/id"
	"krona/internal/shared/logger"
)

// In-memory repository fakes shared by the use case tests.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMerchantRepo struct {
	mu        sync.Mutex
	nextID    uint
	merchants map[uint]*merchant.Merchant
	// subs lets the fake answer the "no active subscription" query.
	subs *fakeSubscriptionRepo
}

func newFakeMerchantRepo(subs *fakeSubscriptionRepo) *fakeMerchantRepo {
	return &fakeMerchantRepo{nextID: 1, merchants: map[uint]*merchant.Merchant{}, subs: subs}
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
	if _, ok := f.merchants[m.ID()]; !ok {
		return merchant.ErrMerchantNotFound
	}
	f.merchants[m.ID()] = m
	return nil
}

func (f *fakeMerchantRepo) List(ctx context.Context, filter merchant.Filter) ([]*merchant.Merchant, int64, error) {
	all := f.sortedMerchants()
	return all, int64(len(all)), nil
}

func (f *fakeMerchantRepo) LockForUpdate(ctx context.Context, id uint) (*merchant.Merchant, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeMerchantRepo) sortedMerchants() []*merchant.Merchant {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*merchant.Merchant, 0, len(f.merchants))
	for _, m := range f.merchants {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fakeMerchantRepo) activeWithoutSubscription(ctx context.Context) []*merchant.Merchant {
	var out []*merchant.Merchant
	for _, m := range f.sortedMerchants() {
		if !m.IsActive() {
			continue
		}
		active, _ := f.subs.GetActiveByMerchantID(ctx, m.ID())
		if active == nil {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMerchantRepo) ListActiveWithoutActiveSubscription(ctx context.Context, offset, limit int) ([]*merchant.Merchant, error) {
	all := f.activeWithoutSubscription(ctx)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeMerchantRepo) CountActiveWithoutActiveSubscription(ctx context.Context) (int64, error) {
	return int64(len(f.activeWithoutSubscription(ctx))), nil
}

// rowLockTable hands out one mutex per merchant ID so the locking fakes can
// model FOR UPDATE semantics: a row lock taken inside a transaction is held
// until that transaction finishes.
type rowLockTable struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newRowLockTable() *rowLockTable {
	return &rowLockTable{locks: map[uint]*sync.Mutex{}}
}

func (lt *rowLockTable) mutexFor(id uint) *sync.Mutex {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	m, ok := lt.locks[id]
	if !ok {
		m = &sync.Mutex{}
		lt.locks[id] = m
	}
	return m
}

type heldLocksKey struct{}

type heldLocks struct {
	mu   sync.Mutex
	held []*sync.Mutex
}

func (h *heldLocks) add(m *sync.Mutex) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.held = append(h.held, m)
}

func (h *heldLocks) releaseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.held) - 1; i >= 0; i-- {
		h.held[i].Unlock()
	}
	h.held = nil
}

// lockingTxManager records row locks taken during the transaction and
// releases them when it ends, commit and rollback alike.
type lockingTxManager struct{}

func (f *lockingTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	h := &heldLocks{}
	defer h.releaseAll()
	return fn(context.WithValue(ctx, heldLocksKey{}, h))
}

// lockingMerchantRepo blocks LockForUpdate while another transaction holds
// the same merchant row.
type lockingMerchantRepo struct {
	*fakeMerchantRepo
	table *rowLockTable
}

func (f *lockingMerchantRepo) LockForUpdate(ctx context.Context, id uint) (*merchant.Merchant, error) {
	mu := f.table.mutexFor(id)
	mu.Lock()
	if h, ok := ctx.Value(heldLocksKey{}).(*heldLocks); ok {
		h.add(mu)
	} else {
		mu.Unlock()
	}
	return f.fakeMerchantRepo.GetByID(ctx, id)
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
	if _, ok := f.plans[plan.ID()]; !ok {
		return subscription.ErrPlanNotFound
	}
	f.plans[plan.ID()] = plan
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plans[id]; !ok {
		return subscription.ErrPlanNotFound
	}
	delete(f.plans, id)
	return nil
}

func (f *fakePlanRepo) List(ctx context.Context, filter subscription.PlanFilter) ([]*subscription.Plan, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*subscription.Plan
	for _, p := range f.plans {
		if filter.Status != nil && string(p.Status()) != *filter.Status {
			continue
		}
		if filter.BillingCycle != nil && p.BillingCycle().String() != *filter.BillingCycle {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, int64(len(out)), nil
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
	if _, ok := f.subs[sub.ID()]; !ok {
		return subscription.ErrSubscriptionNotFound
	}
	f.subs[sub.ID()] = sub
	return nil
}

func (f *fakeSubscriptionRepo) sorted() []*subscription.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(f.subs))
	for _, s := range f.subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (f *fakeSubscriptionRepo) GetActiveByMerchantID(ctx context.Context, merchantID uint) (*subscription.Subscription, error) {
	for _, s := range f.sorted() {
		if s.MerchantID() == merchantID && s.IsActive() {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) ListActiveByMerchantID(ctx context.Context, merchantID uint) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, s := range f.sorted() {
		if s.MerchantID() == merchantID && s.IsActive() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) FindExpiring(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, s := range f.sorted() {
		if !s.IsActive() || s.EndDate() == nil {
			continue
		}
		end := *s.EndDate()
		if !end.Before(from) && !end.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) FindExpired(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	var out []*subscription.Subscription
	for _, s := range f.sorted() {
		if s.IsActive() && s.IsExpiredByDate(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) ListActiveByPlanID(ctx context.Context, planID uint, offset, limit int) ([]*subscription.Subscription, error) {
	var all []*subscription.Subscription
	for _, s := range f.sorted() {
		if s.PlanID() == planID && s.IsActive() {
			all = append(all, s)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeSubscriptionRepo) CountActiveByPlanID(ctx context.Context, planID uint) (int64, error) {
	var count int64
	for _, s := range f.sorted() {
		if s.PlanID() == planID && s.IsActive() {
			count++
		}
	}
	return count, nil
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
	if _, ok := f.assignments[a.ID()]; !ok {
		return subscription.ErrAssignmentNotFound
	}
	f.assignments[a.ID()] = a
	return nil
}

func (f *fakeAssignmentRepo) DeleteStaleUnapplied(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, a := range f.assignments {
		if a.AssignmentType() == vo.AssignmentImmediate && !a.IsApplied() && a.CreatedAt().Before(cutoff) {
			delete(f.assignments, id)
			deleted++
		}
	}
	return deleted, nil
}

type testEnv struct {
	merchants   *fakeMerchantRepo
	plans       *fakePlanRepo
	subs        *fakeSubscriptionRepo
	assignments *fakeAssignmentRepo
	gateway     *mockGateway
	log         logger.Interface
}

func newTestEnv() *testEnv {
	subs := newFakeSubscriptionRepo()
	return &testEnv{
		merchants:   newFakeMerchantRepo(subs),
		plans:       newFakePlanRepo(),
		subs:        subs,
		assignments: newFakeAssignmentRepo(),
		gateway:     &mockGateway{},
		log:         noopLogger{},
	}
}

func (e *testEnv) applyUC() *ApplyAssignmentUseCase {
	return NewApplyAssignmentUseCase(&fakeTxManager{}, e.merchants, e.plans, e.subs, e.assignments, e.log)
}

func (e *testEnv) assignUC() *AssignPlanUseCase {
	return NewAssignPlanUseCase(e.merchants, e.plans, e.assignments, e.applyUC(), e.log)
}

func (e *testEnv) seedMerchant(t *testing.T, name string) *merchant.Merchant {
	t.Helper()
	m, err := merchant.NewMerchant(id.NewMerchantSID(), name, name+"@example.com", nil)
	require.NoError(t, err)
	require.NoError(t, e.merchants.Create(context.Background(), m))
	return m
}

func (e *testEnv) seedPlan(t *testing.T, name string, priceCents uint64, cycle vo.BillingCycle) *subscription.Plan {
	t.Helper()
	p, err := subscription.NewPlan(id.NewPlanSID(), name, "", priceCents, "USD", cycle, "admin")
	require.NoError(t, err)
	require.NoError(t, e.plans.Create(context.Background(), p))
	return p
}

func (e *testEnv) seedActiveSubscription(t *testing.T, m *merchant.Merchant, plan *subscription.Plan, endDate *time.Time) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(id.NewSubscriptionSID(), m.ID(), plan.ID(),
		biztime.NowUTC().Add(-24*time.Hour), endDate, plan.PriceCents(), plan.BillingCycle())
	require.NoError(t, err)
	require.NoError(t, e.subs.Create(context.Background(), sub))
	return sub
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

type mockGateway struct {
	mu       sync.Mutex
	expiring []notification.SubscriptionExpiringEvent
	expired  []notification.SubscriptionExpiredEvent
}

func (g *mockGateway) NotifySubscriptionExpiringSoon(ctx context.Context, event notification.SubscriptionExpiringEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expiring = append(g.expiring, event)
	return nil
}

func (g *mockGateway) NotifySubscriptionExpired(ctx context.Context, event notification.SubscriptionExpiredEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expired = append(g.expired, event)
	return nil
}
