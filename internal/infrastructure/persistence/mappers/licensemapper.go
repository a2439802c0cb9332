package mappers

import (
	"fmt"

	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
)

type LicenseMapper interface {
	ToEntity(model *models.LicenseModel) (*license.License, error)
	ToModel(entity *license.License) *models.LicenseModel
}

type LicenseMapperImpl struct{}

func NewLicenseMapper() LicenseMapper {
	return &LicenseMapperImpl{}
}

func (m *LicenseMapperImpl) ToEntity(model *models.LicenseModel) (*license.License, error) {
	if model == nil {
		return nil, nil
	}

	status := license.Status(model.Status)
	if !license.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid license status: %s", model.Status)
	}

	return license.Reconstruct(license.ReconstructParams{
		ID:                   model.ID,
		Key:                  license.Key(model.LicenseKey),
		Email:                model.Email,
		SiteURL:              model.SiteURL,
		Status:               status,
		PlanName:             model.PlanName,
		StripeCustomerID:     model.StripeCustomerID,
		StripeSubscriptionID: model.StripeSubscriptionID,
		StripePriceID:        model.StripePriceID,
		ActivatedAt:          model.ActivatedAt,
		ExpiresAt:            model.ExpiresAt,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
}

func (m *LicenseMapperImpl) ToModel(entity *license.License) *models.LicenseModel {
	if entity == nil {
		return nil
	}

	return &models.LicenseModel{
		ID:                   entity.ID(),
		LicenseKey:           entity.Key().String(),
		Email:                entity.Email(),
		SiteURL:              entity.SiteURL(),
		Status:               entity.Status().String(),
		PlanName:             entity.PlanName(),
		StripeCustomerID:     entity.StripeCustomerID(),
		StripeSubscriptionID: entity.StripeSubscriptionID(),
		StripePriceID:        entity.StripePriceID(),
		ActivatedAt:          entity.ActivatedAt(),
		ExpiresAt:            entity.ExpiresAt(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}
}
