package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/shared/logger"
)

// EstablishPeriodCommand provisions the credit allotment for one billing
// period of a license.
type EstablishPeriodCommand struct {
	LicenseID   uint
	PriceID     string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// EstablishPeriodUseCase is the credit ledger's write side: it creates the
// period row for a new billing window, or refreshes only the credit cap when
// the same window is delivered again. Redelivered events therefore never
// reset consumption.
type EstablishPeriodUseCase struct {
	creditRepo credit.Repository
	catalog    *credit.Catalog
	logger     logger.Interface
}

func NewEstablishPeriodUseCase(
	creditRepo credit.Repository,
	catalog *credit.Catalog,
	logger logger.Interface,
) *EstablishPeriodUseCase {
	return &EstablishPeriodUseCase{
		creditRepo: creditRepo,
		catalog:    catalog,
		logger:     logger,
	}
}

// Execute provisions the period and returns the credit total it carries.
// Price IDs missing from the catalog provision nothing and return 0.
func (uc *EstablishPeriodUseCase) Execute(ctx context.Context, cmd EstablishPeriodCommand) (int, error) {
	if cmd.LicenseID == 0 {
		return 0, fmt.Errorf("license ID is required")
	}

	credits := uc.catalog.CreditsFor(cmd.PriceID)
	if credits <= 0 {
		uc.logger.Warnw("no credit allotment configured for price, skipping period",
			"license_id", cmd.LicenseID, "price_id", cmd.PriceID)
		return 0, nil
	}

	period, err := credit.NewPeriod(cmd.LicenseID, credits, cmd.PeriodStart, cmd.PeriodEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to build credit period: %w", err)
	}

	if err := uc.creditRepo.UpsertPeriod(ctx, period); err != nil {
		uc.logger.Errorw("failed to upsert credit period",
			"license_id", cmd.LicenseID, "error", err)
		return 0, fmt.Errorf("failed to establish credit period: %w", err)
	}

	uc.logger.Infow("credit period established",
		"license_id", cmd.LicenseID,
		"credits_total", credits,
		"period_start", period.PeriodStart().Format(time.DateOnly),
		"period_end", period.PeriodEnd().Format(time.DateOnly))

	return credits, nil
}
