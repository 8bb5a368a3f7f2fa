package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"krona/internal/domain/billing"
	"krona/internal/infrastructure/persistence/mappers"
	"krona/internal/infrastructure/persistence/models"
	"krona/internal/shared/db"
	"krona/internal/shared/logger"
)

// allowedTransactionSortByFields defines the whitelist of allowed ORDER BY
// fields to prevent SQL injection attacks.
var allowedTransactionSortByFields = map[string]bool{
	"id":           true,
	"sid":          true,
	"reference":    true,
	"merchant_id":  true,
	"plan_id":      true,
	"amount_cents": true,
	"status":       true,
	"created_at":   true,
	"updated_at":   true,
}

type BillingTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.BillingTransactionMapper
	logger logger.Interface
}

func NewBillingTransactionRepository(db *gorm.DB, logger logger.Interface) billing.TransactionRepository {
	return &BillingTransactionRepositoryImpl{
		db:     db,
		mapper: mappers.NewBillingTransactionMapper(),
		logger: logger,
	}
}

func (r *BillingTransactionRepositoryImpl) Create(ctx context.Context, tx *billing.Transaction) error {
	model := r.mapper.ToModel(tx)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create billing transaction in database",
			"reference", model.Reference, "error", err)
		return fmt.Errorf("failed to create billing transaction: %w", err)
	}

	if err := tx.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set transaction ID: %w", err)
	}

	r.logger.Infow("billing transaction created successfully",
		"id", model.ID, "reference", model.Reference, "merchant_id", model.MerchantID)
	return nil
}

func (r *BillingTransactionRepositoryImpl) GetByID(ctx context.Context, id uint) (*billing.Transaction, error) {
	var model models.BillingTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get billing transaction by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get billing transaction: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BillingTransactionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*billing.Transaction, error) {
	var model models.BillingTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get billing transaction by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get billing transaction: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BillingTransactionRepositoryImpl) GetByReference(ctx context.Context, reference string) (*billing.Transaction, error) {
	var model models.BillingTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).Where("reference = ?", reference).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get billing transaction by reference", "reference", reference, "error", err)
		return nil, fmt.Errorf("failed to get billing transaction: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *BillingTransactionRepositoryImpl) Update(ctx context.Context, tx *billing.Transaction) error {
	model := r.mapper.ToModel(tx)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.BillingTransactionModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update billing transaction", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update billing transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrTransactionNotFound
	}

	return nil
}

func (r *BillingTransactionRepositoryImpl) List(ctx context.Context, filter billing.TransactionFilter) ([]*billing.Transaction, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.BillingTransactionModel{})

	if filter.MerchantID != nil {
		query = query.Where("merchant_id = ?", *filter.MerchantID)
	}
	if filter.PlanID != nil {
		query = query.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count billing transactions", "error", err)
		return nil, 0, fmt.Errorf("failed to count billing transactions: %w", err)
	}

	sortBy := "created_at"
	if filter.SortBy != "" && allowedTransactionSortByFields[filter.SortBy] {
		sortBy = filter.SortBy
	}
	order := sortBy + " DESC"
	if !filter.SortDesc && filter.SortBy != "" {
		order = sortBy + " ASC"
	}

	var txModels []*models.BillingTransactionModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order(order).Offset(offset).Limit(filter.PageSize).Find(&txModels).Error; err != nil {
		r.logger.Errorw("failed to list billing transactions", "error", err)
		return nil, 0, fmt.Errorf("failed to list billing transactions: %w", err)
	}

	entities, err := r.mapper.ToEntities(txModels)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map billing transactions: %w", err)
	}

	return entities, total, nil
}

func (r *BillingTransactionRepositoryImpl) FindStalePending(ctx context.Context, cutoff time.Time) ([]*billing.Transaction, error) {
	var txModels []*models.BillingTransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND created_at < ?", billing.StatusPending.String(), cutoff).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		r.logger.Errorw("failed to find stale pending transactions", "error", err)
		return nil, fmt.Errorf("failed to find stale pending transactions: %w", err)
	}

	return r.mapper.ToEntities(txModels)
}
