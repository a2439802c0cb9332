package models

import (
	"time"
)

// CreditPeriodModel represents the database persistence model for per-period
// credit balances. The composite unique index is the upsert key: redelivered
// billing events update credits_total in place and never touch credits_used.
type CreditPeriodModel struct {
	ID           uint      `gorm:"primarykey"`
	LicenseID    uint      `gorm:"not null;uniqueIndex:idx_license_period,priority:1"`
	CreditsTotal int       `gorm:"not null"`
	CreditsUsed  int       `gorm:"not null;default:0"`
	PeriodStart  time.Time `gorm:"type:date;not null;uniqueIndex:idx_license_period,priority:2"`
	PeriodEnd    time.Time `gorm:"type:date;not null;uniqueIndex:idx_license_period,priority:3"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (CreditPeriodModel) TableName() string {
	return "user_credits"
}
