package mappers

import (
	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
)

type CreditPeriodMapper interface {
	ToEntity(model *models.CreditPeriodModel) (*credit.Period, error)
	ToModel(entity *credit.Period) *models.CreditPeriodModel
}

type CreditPeriodMapperImpl struct{}

func NewCreditPeriodMapper() CreditPeriodMapper {
	return &CreditPeriodMapperImpl{}
}

func (m *CreditPeriodMapperImpl) ToEntity(model *models.CreditPeriodModel) (*credit.Period, error) {
	if model == nil {
		return nil, nil
	}

	return credit.ReconstructPeriod(
		model.ID,
		model.LicenseID,
		model.CreditsTotal,
		model.CreditsUsed,
		model.PeriodStart,
		model.PeriodEnd,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *CreditPeriodMapperImpl) ToModel(entity *credit.Period) *models.CreditPeriodModel {
	if entity == nil {
		return nil
	}

	return &models.CreditPeriodModel{
		ID:           entity.ID(),
		LicenseID:    entity.LicenseID(),
		CreditsTotal: entity.CreditsTotal(),
		CreditsUsed:  entity.CreditsUsed(),
		PeriodStart:  entity.PeriodStart(),
		PeriodEnd:    entity.PeriodEnd(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}
