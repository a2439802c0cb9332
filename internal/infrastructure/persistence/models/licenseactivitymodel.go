package models

import (
	"time"

	"gorm.io/datatypes"
)

// LicenseActivityModel represents the database persistence model for the
// append-only license audit trail. Rows are never updated or deleted and are
// kept after license cancellation.
type LicenseActivityModel struct {
	ID            uint   `gorm:"primarykey"`
	LicenseID     uint   `gorm:"not null;index:idx_activity_license"`
	ActivityType  string `gorm:"not null;size:32;index:idx_activity_type"`
	CreditsAmount *int
	IPAddress     string `gorm:"size:45"`
	UserAgent     string `gorm:"size:512"`
	Metadata      datatypes.JSON
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (LicenseActivityModel) TableName() string {
	return "license_activity"
}
