package models

import (
	"time"
)

// LicenseModel represents the database persistence model for licenses.
// This is the anti-corruption layer between domain and database.
type LicenseModel struct {
	ID                   uint       `gorm:"primarykey"`
	LicenseKey           string     `gorm:"uniqueIndex;not null;size:19"`
	Email                string     `gorm:"size:255"`
	SiteURL              string     `gorm:"size:255"`
	Status               string     `gorm:"not null;size:20;index:idx_license_status"`
	PlanName             string     `gorm:"size:100"`
	StripeCustomerID     string     `gorm:"size:255;index:idx_stripe_customer"`
	StripeSubscriptionID string     `gorm:"uniqueIndex;not null;size:255"`
	StripePriceID        string     `gorm:"size:255"`
	ActivatedAt          time.Time  `gorm:"not null"`
	ExpiresAt            *time.Time `gorm:"index:idx_license_expires"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (LicenseModel) TableName() string {
	return "licenses"
}
