package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/infrastructure/persistence/mappers"
	"krona/internal/infrastructure/persistence/models"
	"krona/internal/shared/db"
	"krona/internal/shared/logger"
)

type PlanAssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanAssignmentMapper
	logger logger.Interface
}

func NewPlanAssignmentRepository(db *gorm.DB, logger logger.Interface) subscription.PlanAssignmentRepository {
	return &PlanAssignmentRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanAssignmentMapper(),
		logger: logger,
	}
}

func (r *PlanAssignmentRepositoryImpl) Create(ctx context.Context, assignment *subscription.PlanAssignment) error {
	model := r.mapper.ToModel(assignment)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan assignment in database", "error", err)
		return fmt.Errorf("failed to create plan assignment: %w", err)
	}

	if err := assignment.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set assignment ID: %w", err)
	}

	r.logger.Infow("plan assignment created successfully",
		"id", model.ID, "merchant_id", model.MerchantID, "plan_id", model.PlanID,
		"type", model.AssignmentType)
	return nil
}

func (r *PlanAssignmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.PlanAssignment, error) {
	var model models.PlanAssignmentModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan assignment by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan assignment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID loads the assignment. Inside a transaction the row is locked FOR
// UPDATE so the applied flag cannot be raced by a concurrent apply.
func (r *PlanAssignmentRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.PlanAssignment, error) {
	var model models.PlanAssignmentModel

	query := db.GetTxFromContext(ctx, r.db)
	if db.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := query.Where("sid = ?", sid).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan assignment by SID", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get plan assignment: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanAssignmentRepositoryImpl) Update(ctx context.Context, assignment *subscription.PlanAssignment) error {
	model := r.mapper.ToModel(assignment)

	result := db.GetTxFromContext(ctx, r.db).Model(&models.PlanAssignmentModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update plan assignment", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update plan assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrAssignmentNotFound
	}

	return nil
}

func (r *PlanAssignmentRepositoryImpl) DeleteStaleUnapplied(ctx context.Context, cutoff time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("assignment_type = ? AND is_applied = ? AND created_at < ?",
			vo.AssignmentImmediate.String(), false, cutoff).
		Delete(&models.PlanAssignmentModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete stale assignments", "error", result.Error)
		return 0, fmt.Errorf("failed to delete stale assignments: %w", result.Error)
	}

	return result.RowsAffected, nil
}
