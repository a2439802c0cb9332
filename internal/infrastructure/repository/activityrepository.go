package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
	"github.com/writgo/licensing/internal/shared/db"
	apperrors "github.com/writgo/licensing/internal/shared/errors"
	"github.com/writgo/licensing/internal/shared/logger"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewActivityRepository(db *gorm.DB, logger logger.Interface) license.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Append writes one audit entry. The trail is insert-only; there is no
// update or delete path.
func (r *ActivityRepositoryImpl) Append(ctx context.Context, entity *license.Activity) error {
	model := &models.LicenseActivityModel{
		LicenseID:     entity.LicenseID(),
		ActivityType:  string(entity.Type()),
		CreditsAmount: entity.CreditsAmount(),
		IPAddress:     entity.IPAddress(),
		UserAgent:     entity.UserAgent(),
		CreatedAt:     entity.CreatedAt(),
	}

	if meta := entity.Metadata(); meta != nil {
		raw, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal activity metadata: %w", err)
		}
		model.Metadata = raw
	}

	txDB := db.GetTxFromContext(ctx, r.db)
	if err := txDB.Create(model).Error; err != nil {
		r.logger.Errorw("failed to append license activity",
			"license_id", entity.LicenseID(), "type", entity.Type(), "error", err)
		return apperrors.NewInternalError("failed to append license activity", err.Error())
	}

	entity.SetID(model.ID)
	return nil
}
