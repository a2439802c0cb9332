package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/infrastructure/persistence/mappers"
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
	"github.com/writgo/licensing/internal/shared/db"
	apperrors "github.com/writgo/licensing/internal/shared/errors"
	"github.com/writgo/licensing/internal/shared/logger"
)

type LicenseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LicenseMapper
	logger logger.Interface
}

func NewLicenseRepository(db *gorm.DB, logger logger.Interface) license.Repository {
	return &LicenseRepositoryImpl{
		db:     db,
		mapper: mappers.NewLicenseMapper(),
		logger: logger,
	}
}

// Upsert inserts the license or updates the existing row sharing its billing
// subscription ID. The conflict resolution runs in a single statement so two
// concurrent deliveries of the same subscription event serialize on the
// unique key instead of racing a check-then-insert. The license key column
// is deliberately excluded from the update set: only the first insert ever
// assigns a key.
func (r *LicenseRepositoryImpl) Upsert(ctx context.Context, entity *license.License) (bool, error) {
	model := r.mapper.ToModel(entity)
	txDB := db.GetTxFromContext(ctx, r.db)

	result := txDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stripe_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_price_id", "status", "plan_name", "activated_at", "expires_at",
		}),
	}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to upsert license", "error", result.Error)
		if apperrors.IsDuplicateError(result.Error) {
			return false, apperrors.NewConflictError("license row conflict", result.Error.Error())
		}
		return false, apperrors.NewInternalError("failed to upsert license", result.Error.Error())
	}

	// MySQL reports one affected row for a fresh insert and two for a
	// duplicate-key update.
	created := result.RowsAffected == 1
	if created && model.ID != 0 {
		if err := entity.SetID(model.ID); err != nil {
			return false, fmt.Errorf("failed to set license ID: %w", err)
		}
	}

	return created, nil
}

func (r *LicenseRepositoryImpl) GetByKey(ctx context.Context, key license.Key) (*license.License, error) {
	return r.getByKey(ctx, key, false)
}

func (r *LicenseRepositoryImpl) GetByKeyForUpdate(ctx context.Context, key license.Key) (*license.License, error) {
	return r.getByKey(ctx, key, true)
}

func (r *LicenseRepositoryImpl) getByKey(ctx context.Context, key license.Key, forUpdate bool) (*license.License, error) {
	var model models.LicenseModel

	txDB := db.GetTxFromContext(ctx, r.db)
	if forUpdate {
		txDB = txDB.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := txDB.Where("license_key = ?", key.String()).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get license by key", "error", err)
		return nil, apperrors.NewInternalError("failed to get license", err.Error())
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map license model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map license: %w", err)
	}

	return entity, nil
}

func (r *LicenseRepositoryImpl) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*license.License, error) {
	var model models.LicenseModel

	txDB := db.GetTxFromContext(ctx, r.db)
	if err := txDB.Where("stripe_subscription_id = ?", subscriptionID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get license by subscription ID", "subscription_id", subscriptionID, "error", err)
		return nil, apperrors.NewInternalError("failed to get license", err.Error())
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map license model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map license: %w", err)
	}

	return entity, nil
}

func (r *LicenseRepositoryImpl) Update(ctx context.Context, entity *license.License) error {
	if entity.ID() == 0 {
		return fmt.Errorf("cannot update license without ID")
	}

	model := r.mapper.ToModel(entity)
	txDB := db.GetTxFromContext(ctx, r.db)

	if err := txDB.Model(&models.LicenseModel{}).Where("id = ?", model.ID).Updates(map[string]interface{}{
		"email":           model.Email,
		"site_url":        model.SiteURL,
		"status":          model.Status,
		"plan_name":       model.PlanName,
		"stripe_price_id": model.StripePriceID,
		"expires_at":      model.ExpiresAt,
		"updated_at":      model.UpdatedAt,
	}).Error; err != nil {
		r.logger.Errorw("failed to update license", "id", model.ID, "error", err)
		return apperrors.NewInternalError("failed to update license", err.Error())
	}

	return nil
}
