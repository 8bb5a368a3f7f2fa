package usecases

import (
	"context"
	"fmt"
	"time"

	"krona/internal/domain/billing"
	"krona/internal/shared/biztime"
	"krona/internal/shared/constants"
	"krona/internal/shared/logger"
)

// stalePendingAge is how long a pending transaction may wait for
// verification before the cleanup job abandons it.
const stalePendingAge = 72 * time.Hour

// ExpireStaleTransactionsUseCase moves pending transactions older than three
// days to expired. Per-row failures are logged and skipped.
type ExpireStaleTransactionsUseCase struct {
	transactionRepo billing.TransactionRepository
	logger          logger.Interface
}

func NewExpireStaleTransactionsUseCase(
	transactionRepo billing.TransactionRepository,
	logger logger.Interface,
) *ExpireStaleTransactionsUseCase {
	return &ExpireStaleTransactionsUseCase{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// Execute returns the number of transactions expired.
func (uc *ExpireStaleTransactionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()
	cutoff := now.Add(-stalePendingAge)

	stale, err := uc.transactionRepo.FindStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale pending transactions: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found stale pending transactions to expire", "count", len(stale))

	expiredCount := 0
	for _, tx := range stale {
		if err := tx.MarkExpired(constants.SystemActor, now); err != nil {
			uc.logger.Warnw("failed to mark transaction as expired",
				"reference", tx.Reference(), "status", tx.Status().String(), "error", err)
			continue
		}

		if err := uc.transactionRepo.Update(ctx, tx); err != nil {
			uc.logger.Errorw("failed to update expired transaction",
				"reference", tx.Reference(), "error", err)
			continue
		}

		expiredCount++
	}

	return expiredCount, nil
}
