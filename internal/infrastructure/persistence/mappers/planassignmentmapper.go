package mappers

import (
	"fmt"

	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/infrastructure/persistence/models"
)

type PlanAssignmentMapper interface {
	ToEntity(model *models.PlanAssignmentModel) (*subscription.PlanAssignment, error)
	ToModel(entity *subscription.PlanAssignment) *models.PlanAssignmentModel
	ToEntities(ms []*models.PlanAssignmentModel) ([]*subscription.PlanAssignment, error)
}

type planAssignmentMapperImpl struct{}

func NewPlanAssignmentMapper() PlanAssignmentMapper {
	return &planAssignmentMapperImpl{}
}

func (m *planAssignmentMapperImpl) ToEntity(model *models.PlanAssignmentModel) (*subscription.PlanAssignment, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := subscription.ReconstructPlanAssignment(
		model.ID,
		model.SID,
		model.MerchantID,
		model.PlanID,
		vo.AssignmentType(model.AssignmentType),
		model.ScheduledDate,
		vo.DurationType(model.DurationType),
		model.EndDate,
		model.Notes,
		model.AssignedBy,
		model.IsApplied,
		model.AppliedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan assignment entity: %w", err)
	}

	return entity, nil
}

func (m *planAssignmentMapperImpl) ToModel(entity *subscription.PlanAssignment) *models.PlanAssignmentModel {
	if entity == nil {
		return nil
	}

	return &models.PlanAssignmentModel{
		ID:             entity.ID(),
		SID:            entity.SID(),
		MerchantID:     entity.MerchantID(),
		PlanID:         entity.PlanID(),
		AssignmentType: entity.AssignmentType().String(),
		ScheduledDate:  entity.ScheduledDate(),
		DurationType:   entity.DurationType().String(),
		EndDate:        entity.EndDate(),
		Notes:          entity.Notes(),
		AssignedBy:     entity.AssignedBy(),
		IsApplied:      entity.IsApplied(),
		AppliedAt:      entity.AppliedAt(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}
}

func (m *planAssignmentMapperImpl) ToEntities(ms []*models.PlanAssignmentModel) ([]*subscription.PlanAssignment, error) {
	entities := make([]*subscription.PlanAssignment, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
