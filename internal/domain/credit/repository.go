package credit

import (
	"context"
	"time"
)

// Repository persists credit periods. Lookups return (nil, nil) when no row
// matches so callers can distinguish absence from storage failure.
type Repository interface {
	// UpsertPeriod inserts the period or, when a row with the same
	// (license_id, period_start, period_end) natural key exists, updates
	// only credits_total in place. credits_used must never be touched by
	// the upsert so redelivered billing events cannot reset consumption.
	UpsertPeriod(ctx context.Context, p *Period) error

	// GetActivePeriod returns the period whose date range contains the
	// given date for a license.
	GetActivePeriod(ctx context.Context, licenseID uint, date time.Time) (*Period, error)
	// GetActivePeriodForUpdate locks the matching period row for the
	// duration of the surrounding transaction.
	GetActivePeriodForUpdate(ctx context.Context, licenseID uint, date time.Time) (*Period, error)

	// UpdateUsage persists the period's credits_used counter.
	UpdateUsage(ctx context.Context, p *Period) error
}
