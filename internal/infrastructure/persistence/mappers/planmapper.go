package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"krona/internal/domain/subscription"
	vo "krona/internal/domain/subscription/valueobjects"
	"krona/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)
	ToEntities(ms []*models.PlanModel) ([]*subscription.Plan, error)
}

type planMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &planMapperImpl{}
}

func (m *planMapperImpl) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	cycle, err := vo.ParseBillingCycle(model.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("failed to parse billing cycle: %w", err)
	}

	var limits map[string]interface{}
	if model.Limits != nil {
		if err := json.Unmarshal(model.Limits, &limits); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan limits: %w", err)
		}
	}

	var features []string
	if model.Features != nil {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan features: %w", err)
		}
	}

	entity, err := subscription.ReconstructPlan(
		model.ID,
		model.SID,
		model.Name,
		model.Description,
		model.PriceCents,
		model.Currency,
		cycle,
		limits,
		features,
		model.Status,
		model.IsPopular,
		model.DisplayOrder,
		model.CreatedBy,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

func (m *planMapperImpl) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var limitsJSON datatypes.JSON
	if limits := entity.Limits(); len(limits) > 0 {
		data, err := json.Marshal(limits)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan limits: %w", err)
		}
		limitsJSON = data
	}

	var featuresJSON datatypes.JSON
	if features := entity.Features(); len(features) > 0 {
		data, err := json.Marshal(features)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan features: %w", err)
		}
		featuresJSON = data
	}

	return &models.PlanModel{
		ID:           entity.ID(),
		SID:          entity.SID(),
		Name:         entity.Name(),
		Description:  entity.Description(),
		PriceCents:   entity.PriceCents(),
		Currency:     entity.Currency(),
		BillingCycle: entity.BillingCycle().String(),
		Limits:       limitsJSON,
		Features:     featuresJSON,
		Status:       string(entity.Status()),
		IsPopular:    entity.IsPopular(),
		DisplayOrder: entity.DisplayOrder(),
		CreatedBy:    entity.CreatedBy(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *planMapperImpl) ToEntities(ms []*models.PlanModel) ([]*subscription.Plan, error) {
	entities := make([]*subscription.Plan, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
