package billing

import (
	"context"
	"time"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uint) (*Transaction, error)
	GetBySID(ctx context.Context, sid string) (*Transaction, error)
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error

	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, int64, error)

	// FindStalePending returns pending transactions created before the cutoff.
	FindStalePending(ctx context.Context, cutoff time.Time) ([]*Transaction, error)
}

type TransactionFilter struct {
	MerchantID *uint
	PlanID     *uint
	Status     *string
	Page       int
	PageSize   int
	SortBy     string
	SortDesc   bool
}

// SequenceAllocator hands out monotonically increasing per-year sequence
// values for ledger references. Next must be called inside the same
// transaction that inserts the ledger row so an allocation is never burned
// without its transaction.
type SequenceAllocator interface {
	Next(ctx context.Context, year int) (uint64, error)
}
