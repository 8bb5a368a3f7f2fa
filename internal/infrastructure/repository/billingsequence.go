package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"krona/internal/domain/billing"
	"krona/internal/infrastructure/persistence/models"
	"krona/internal/shared/db"
	"krona/internal/shared/logger"
)

// BillingSequenceAllocator hands out per-year ledger sequence values using a
// SELECT FOR UPDATE on the year row. Next must run inside the transaction
// that inserts the ledger row so an allocation is never burned without its
// transaction committing.
type BillingSequenceAllocator struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewBillingSequenceAllocator(db *gorm.DB, logger logger.Interface) billing.SequenceAllocator {
	return &BillingSequenceAllocator{
		db:     db,
		logger: logger,
	}
}

func (a *BillingSequenceAllocator) Next(ctx context.Context, year int) (uint64, error) {
	txDB := db.GetTxFromContext(ctx, a.db)

	var row models.BillingSequenceModel
	err := txDB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("year = ?", year).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First allocation of the year. A concurrent insert loses on the
		// primary key; retry through the locked read.
		row = models.BillingSequenceModel{Year: year, Value: 1}
		if insertErr := txDB.Create(&row).Error; insertErr != nil {
			if retryErr := txDB.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("year = ?", year).
				First(&row).Error; retryErr != nil {
				a.logger.Errorw("failed to allocate billing sequence", "year", year, "error", retryErr)
				return 0, fmt.Errorf("failed to allocate billing sequence: %w", retryErr)
			}
		} else {
			return row.Value, nil
		}
	} else if err != nil {
		a.logger.Errorw("failed to lock billing sequence row", "year", year, "error", err)
		return 0, fmt.Errorf("failed to lock billing sequence: %w", err)
	}

	next := row.Value + 1
	if err := txDB.Model(&models.BillingSequenceModel{}).
		Where("year = ?", year).
		Update("value", next).Error; err != nil {
		a.logger.Errorw("failed to advance billing sequence", "year", year, "error", err)
		return 0, fmt.Errorf("failed to advance billing sequence: %w", err)
	}

	return next, nil
}
