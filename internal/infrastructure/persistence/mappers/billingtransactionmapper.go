package mappers

import (
	"fmt"

	"krona/internal/domain/billing"
	"krona/internal/infrastructure/persistence/models"
)

type BillingTransactionMapper interface {
	ToEntity(model *models.BillingTransactionModel) (*billing.Transaction, error)
	ToModel(entity *billing.Transaction) *models.BillingTransactionModel
	ToEntities(ms []*models.BillingTransactionModel) ([]*billing.Transaction, error)
}

type billingTransactionMapperImpl struct{}

func NewBillingTransactionMapper() BillingTransactionMapper {
	return &billingTransactionMapperImpl{}
}

func (m *billingTransactionMapperImpl) ToEntity(model *models.BillingTransactionModel) (*billing.Transaction, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := billing.ReconstructTransaction(
		model.ID,
		model.SID,
		model.Reference,
		model.MerchantID,
		model.PlanID,
		model.SubscriptionID,
		model.AmountCents,
		model.Currency,
		model.PaymentReference,
		model.PaymentMethod,
		billing.TransactionStatus(model.Status),
		model.BillingPeriodStart,
		model.BillingPeriodEnd,
		model.ProcessedAt,
		model.ProcessedBy,
		model.Notes,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct billing transaction entity: %w", err)
	}

	return entity, nil
}

func (m *billingTransactionMapperImpl) ToModel(entity *billing.Transaction) *models.BillingTransactionModel {
	if entity == nil {
		return nil
	}

	return &models.BillingTransactionModel{
		ID:                 entity.ID(),
		SID:                entity.SID(),
		Reference:          entity.Reference(),
		MerchantID:         entity.MerchantID(),
		PlanID:             entity.PlanID(),
		SubscriptionID:     entity.SubscriptionID(),
		AmountCents:        entity.AmountCents(),
		Currency:           entity.Currency(),
		PaymentReference:   entity.PaymentReference(),
		PaymentMethod:      entity.PaymentMethod(),
		Status:             entity.Status().String(),
		BillingPeriodStart: entity.BillingPeriodStart(),
		BillingPeriodEnd:   entity.BillingPeriodEnd(),
		ProcessedAt:        entity.ProcessedAt(),
		ProcessedBy:        entity.ProcessedBy(),
		Notes:              entity.Notes(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}
}

func (m *billingTransactionMapperImpl) ToEntities(ms []*models.BillingTransactionModel) ([]*billing.Transaction, error) {
	entities := make([]*billing.Transaction, 0, len(ms))
	for _, model := range ms {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
