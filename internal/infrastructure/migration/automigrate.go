package migration

import (
	"github.com/writgo/licensing/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.LicenseModel{},
		&models.CreditPeriodModel{},
		&models.LicenseActivityModel{},
	}
}
