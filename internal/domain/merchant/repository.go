package merchant

import "context"

type Repository interface {
	Create(ctx context.Context, m *Merchant) error
	GetByID(ctx context.Context, id uint) (*Merchant, error)
	GetBySID(ctx context.Context, sid string) (*Merchant, error)
	Update(ctx context.Context, m *Merchant) error

	List(ctx context.Context, filter Filter) ([]*Merchant, int64, error)

	// LockForUpdate loads the merchant row with a FOR UPDATE lock. Callers
	// must already be inside a transaction; the lock serializes concurrent
	// plan applications for the same merchant.
	LockForUpdate(ctx context.Context, id uint) (*Merchant, error)

	// ListActiveWithoutActiveSubscription pages over active merchants that
	// hold no active subscription row, ordered by merchant id.
	ListActiveWithoutActiveSubscription(ctx context.Context, offset, limit int) ([]*Merchant, error)
	CountActiveWithoutActiveSubscription(ctx context.Context) (int64, error)
}

type Filter struct {
	Status   *string
	Page     int
	PageSize int
}
