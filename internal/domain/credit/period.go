// Package credit contains the credit ledger: per-license billing periods
// with a fixed allotment drawn down by metered usage.
package credit

import (
	"fmt"
	"time"

	"github.com/writgo/licensing/internal/shared/biztime"
)

const (
	// MinConsumeAmount and MaxConsumeAmount bound a single consumption
	// request.
	MinConsumeAmount = 1
	MaxConsumeAmount = 1000
)

// Period is one billing period's credit balance for a license. For a given
// license at most one period's date range contains any given day. Periods
// are superseded by the next period's row, never deleted.
type Period struct {
	id           uint
	licenseID    uint
	creditsTotal int
	creditsUsed  int
	periodStart  time.Time
	periodEnd    time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// NewPeriod creates a fresh period with no consumption.
func NewPeriod(licenseID uint, creditsTotal int, periodStart, periodEnd time.Time) (*Period, error) {
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}
	if creditsTotal <= 0 {
		return nil, fmt.Errorf("credits total must be positive, got %d", creditsTotal)
	}
	periodStart = biztime.DateOf(periodStart)
	periodEnd = biztime.DateOf(periodEnd)
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("period end must not precede period start")
	}

	now := biztime.NowUTC()
	return &Period{
		licenseID:    licenseID,
		creditsTotal: creditsTotal,
		creditsUsed:  0,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructPeriod rebuilds a period from persistence.
func ReconstructPeriod(id, licenseID uint, creditsTotal, creditsUsed int, periodStart, periodEnd, createdAt, updatedAt time.Time) (*Period, error) {
	if id == 0 {
		return nil, fmt.Errorf("period ID cannot be zero")
	}
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}
	if creditsUsed < 0 || creditsUsed > creditsTotal {
		return nil, fmt.Errorf("credits used %d out of range for total %d", creditsUsed, creditsTotal)
	}

	return &Period{
		id:           id,
		licenseID:    licenseID,
		creditsTotal: creditsTotal,
		creditsUsed:  creditsUsed,
		periodStart:  periodStart,
		periodEnd:    periodEnd,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (p *Period) ID() uint               { return p.id }
func (p *Period) LicenseID() uint        { return p.licenseID }
func (p *Period) CreditsTotal() int      { return p.creditsTotal }
func (p *Period) CreditsUsed() int       { return p.creditsUsed }
func (p *Period) PeriodStart() time.Time { return p.periodStart }
func (p *Period) PeriodEnd() time.Time   { return p.periodEnd }
func (p *Period) CreatedAt() time.Time   { return p.createdAt }
func (p *Period) UpdatedAt() time.Time   { return p.updatedAt }

// SetID assigns the database-generated identifier after insertion.
func (p *Period) SetID(id uint) {
	p.id = id
}

// Remaining returns the credits left in this period.
func (p *Period) Remaining() int {
	return p.creditsTotal - p.creditsUsed
}

// Contains reports whether the given date falls inside the period's
// inclusive date range.
func (p *Period) Contains(date time.Time) bool {
	date = biztime.DateOf(date)
	return !date.Before(p.periodStart) && !date.After(p.periodEnd)
}

// Consume draws amount credits from the period. Consumption only ever
// increases creditsUsed; it never exceeds the total.
func (p *Period) Consume(amount int) error {
	if amount < MinConsumeAmount || amount > MaxConsumeAmount {
		return ErrInvalidAmount
	}
	if p.Remaining() < amount {
		return ErrInsufficientCredits
	}
	p.creditsUsed += amount
	p.updatedAt = biztime.NowUTC()
	return nil
}
