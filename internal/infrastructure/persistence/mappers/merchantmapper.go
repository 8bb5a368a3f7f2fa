package mappers

import (
	"fmt"

	"krona/internal/domain/merchant"
	"krona/internal/infrastructure/persistence/models"
)

type MerchantMapper interface {
	ToEntity(model *models.MerchantModel) (*merchant.Merchant, error)
	ToModel(entity *merchant.Merchant) *models.MerchantModel
	ToEntities(ms []*models.MerchantModel) ([]*merchant.Merchant, error)
}

type merchantMapperImpl struct{}

func NewMerchantMapper() MerchantMapper {
	return &merchantMapperImpl{}
}

func (m *merchantMapperImpl) ToEntity(model *models.MerchantModel) (*merchant.Merchant, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := merchant.ReconstructMerchant(
		model.ID,
		model.SID,
		model.Name,
		merchant.Status(model.Status),
		model.OwnerEmail,
		model.OwnerUserID,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct merchant entity: %w", err)
	}

	return entity, nil
}

func (m *merchantMapperImpl) ToModel(entity *merchant.Merchant) *models.MerchantModel {
	if entity == nil {
		return nil
	}

	return &models.MerchantModel{
		ID:          entity.ID(),
		SID:         entity.SID(),
		Name:        entity.Name(),
		Status:      string(entity.Status()),
		OwnerEmail:  entity.OwnerEmail(),
		OwnerUserID: entity.OwnerUserID(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *merchantMapperImpl) ToEntities(ms []*models.MerchantModel) ([]*merchant.Merchant, error) {
	entities := make([]*merchant.Merchant, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
