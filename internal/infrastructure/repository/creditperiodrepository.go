package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/infrastructure/persistence/mappers"
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
	"github.com/writgo/licensing/internal/shared/db"
	apperrors "github.com/writgo/licensing/internal/shared/errors"
	"github.com/writgo/licensing/internal/shared/logger"
)

type CreditPeriodRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CreditPeriodMapper
	logger logger.Interface
}

func NewCreditPeriodRepository(db *gorm.DB, logger logger.Interface) credit.Repository {
	return &CreditPeriodRepositoryImpl{
		db:     db,
		mapper: mappers.NewCreditPeriodMapper(),
		logger: logger,
	}
}

// UpsertPeriod inserts the period row or, when the (license_id,
// period_start, period_end) natural key already exists, refreshes only
// credits_total. credits_used is never part of the update set, so
// redelivered billing events cannot erase consumption history.
func (r *CreditPeriodRepositoryImpl) UpsertPeriod(ctx context.Context, entity *credit.Period) error {
	model := r.mapper.ToModel(entity)
	txDB := db.GetTxFromContext(ctx, r.db)

	result := txDB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "license_id"}, {Name: "period_start"}, {Name: "period_end"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"credits_total"}),
	}).Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to upsert credit period", "license_id", model.LicenseID, "error", result.Error)
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewConflictError("credit period row conflict", result.Error.Error())
		}
		return apperrors.NewInternalError("failed to upsert credit period", result.Error.Error())
	}

	if result.RowsAffected == 1 && model.ID != 0 {
		entity.SetID(model.ID)
	}

	return nil
}

func (r *CreditPeriodRepositoryImpl) GetActivePeriod(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error) {
	return r.getActivePeriod(ctx, licenseID, date, false)
}

func (r *CreditPeriodRepositoryImpl) GetActivePeriodForUpdate(ctx context.Context, licenseID uint, date time.Time) (*credit.Period, error) {
	return r.getActivePeriod(ctx, licenseID, date, true)
}

func (r *CreditPeriodRepositoryImpl) getActivePeriod(ctx context.Context, licenseID uint, date time.Time, forUpdate bool) (*credit.Period, error) {
	var model models.CreditPeriodModel

	txDB := db.GetTxFromContext(ctx, r.db)
	if forUpdate {
		txDB = txDB.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := txDB.
		Where("license_id = ? AND period_start <= ? AND period_end >= ?", licenseID, date, date).
		Order("period_start DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get active credit period", "license_id", licenseID, "error", err)
		return nil, apperrors.NewInternalError("failed to get credit period", err.Error())
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map credit period model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map credit period: %w", err)
	}

	return entity, nil
}

// UpdateUsage persists the consumption counter. Only credits_used moves
// here, and only upward.
func (r *CreditPeriodRepositoryImpl) UpdateUsage(ctx context.Context, entity *credit.Period) error {
	if entity.ID() == 0 {
		return fmt.Errorf("cannot update credit period without ID")
	}

	txDB := db.GetTxFromContext(ctx, r.db)
	if err := txDB.Model(&models.CreditPeriodModel{}).Where("id = ?", entity.ID()).Updates(map[string]interface{}{
		"credits_used": entity.CreditsUsed(),
		"updated_at":   entity.UpdatedAt(),
	}).Error; err != nil {
		r.logger.Errorw("failed to update credit usage", "id", entity.ID(), "error", err)
		return apperrors.NewInternalError("failed to update credit usage", err.Error())
	}

	return nil
}
