package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"krona/internal/domain/merchant"
	"krona/internal/infrastructure/persistence/mappers"
	"krona/internal/infrastructure/persistence/models"
	"krona/internal/shared/constants"
	"krona/internal/shared/db"
	"krona/internal/shared/logger"
)

type MerchantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MerchantMapper
	logger logger.Interface
}

func NewMerchantRepository(db *gorm.DB, logger logger.Interface) merchant.Repository {
	return &MerchantRepositoryImpl{
		db:     db,
		mapper: mappers.NewMerchantMapper(),
		logger: logger,
	}
}

func (r *MerchantRepositoryImpl) Create(ctx context.Context, m *merchant.Merchant) error {
	model := r.mapper.ToModel(m)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create merchant in database", "name", model.Name, "error", err)
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set merchant ID: %w", err)
	}

	r.logger.Infow("merchant created successfully", "id", model.ID, "sid", model.SID)
	return nil
}

func (r *MerchantRepositoryImpl) GetByID(ctx context.Context, id uint) (*merchant.Merchant, error) {
	var model models.MerchantModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get merchant by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *MerchantRepositoryImpl) GetBySID(ctx context.Context, sid string) (*merchant.Merchant, error) {
	var model models.MerchantModel

	if err := db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get merchant by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *MerchantRepositoryImpl) Update(ctx context.Context, m *merchant.Merchant) error {
	model := r.mapper.ToModel(m)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.MerchantModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update merchant", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update merchant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return merchant.ErrMerchantNotFound
	}

	return nil
}

func (r *MerchantRepositoryImpl) List(ctx context.Context, filter merchant.Filter) ([]*merchant.Merchant, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.MerchantModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count merchants", "error", err)
		return nil, 0, fmt.Errorf("failed to count merchants: %w", err)
	}

	var merchantModels []*models.MerchantModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("id ASC").Offset(offset).Limit(filter.PageSize).Find(&merchantModels).Error; err != nil {
		r.logger.Errorw("failed to list merchants", "error", err)
		return nil, 0, fmt.Errorf("failed to list merchants: %w", err)
	}

	entities, err := r.mapper.ToEntities(merchantModels)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map merchants: %w", err)
	}

	return entities, total, nil
}

// LockForUpdate loads the merchant row with FOR UPDATE. It must run inside a
// transaction carried in ctx; the lock serializes concurrent plan
// applications for the same merchant.
func (r *MerchantRepositoryImpl) LockForUpdate(ctx context.Context, id uint) (*merchant.Merchant, error) {
	var model models.MerchantModel

	if err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to lock merchant row", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock merchant: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// activeWithoutSubscriptionQuery selects active merchants holding no active
// subscription row. Used by the Free plan membership listing.
func (r *MerchantRepositoryImpl) activeWithoutSubscriptionQuery(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Model(&models.MerchantModel{}).
		Where("merchants.status = ?", string(merchant.StatusActive)).
		Where("NOT EXISTS (SELECT 1 FROM "+constants.TableSubscriptions+" s WHERE s.merchant_id = merchants.id AND s.status = ? AND s.deleted_at IS NULL)", "active")
}

func (r *MerchantRepositoryImpl) ListActiveWithoutActiveSubscription(ctx context.Context, offset, limit int) ([]*merchant.Merchant, error) {
	var merchantModels []*models.MerchantModel

	if err := r.activeWithoutSubscriptionQuery(ctx).
		Order("merchants.id ASC").
		Offset(offset).Limit(limit).
		Find(&merchantModels).Error; err != nil {
		r.logger.Errorw("failed to list merchants without active subscription", "error", err)
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}

	return r.mapper.ToEntities(merchantModels)
}

func (r *MerchantRepositoryImpl) CountActiveWithoutActiveSubscription(ctx context.Context) (int64, error) {
	var count int64
	if err := r.activeWithoutSubscriptionQuery(ctx).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count merchants without active subscription", "error", err)
		return 0, fmt.Errorf("failed to count merchants: %w", err)
	}
	return count, nil
}
