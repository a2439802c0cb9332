package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/shared/biztime"
	"github.com/writgo/licensing/internal/shared/logger"
)

type ValidateLicenseCommand struct {
	LicenseKey string
	SiteURL    string
	Meta       license.RequestMeta
}

type ValidateLicenseResult struct {
	Valid            bool
	Status           license.Status
	CreditsRemaining int
	CreditsTotal     int
	SiteURL          string
	PlanName         string
	ExpiresAt        *time.Time
}

// ValidateLicenseUseCase resolves a license key to its validity and credit
// snapshot. It is read-mostly: the only writes are the lazy expiry
// transition and the best-effort last-seen site URL, so it is safe to call
// as a heartbeat and never consumes credits.
type ValidateLicenseUseCase struct {
	licenseRepo  license.Repository
	creditRepo   credit.Repository
	activityRepo license.ActivityRepository
	tm           TransactionManager
	logger       logger.Interface
}

func NewValidateLicenseUseCase(
	licenseRepo license.Repository,
	creditRepo credit.Repository,
	activityRepo license.ActivityRepository,
	tm TransactionManager,
	logger logger.Interface,
) *ValidateLicenseUseCase {
	return &ValidateLicenseUseCase{
		licenseRepo:  licenseRepo,
		creditRepo:   creditRepo,
		activityRepo: activityRepo,
		tm:           tm,
		logger:       logger,
	}
}

func (uc *ValidateLicenseUseCase) Execute(ctx context.Context, cmd ValidateLicenseCommand) (*ValidateLicenseResult, error) {
	key, err := license.NewKey(cmd.LicenseKey)
	if err != nil {
		return nil, err
	}

	lic, err := uc.licenseRepo.GetByKey(ctx, key)
	if err != nil {
		uc.logger.Errorw("failed to look up license", "error", err)
		return nil, fmt.Errorf("failed to look up license: %w", err)
	}
	if lic == nil {
		return nil, license.ErrLicenseNotFound
	}

	valid := lic.Status().IsUsable()

	// Lazy expiry: an expired license is transitioned on the read path so no
	// background sweeper is needed. MarkExpired is a no-op when the status
	// already says expired.
	if valid && lic.IsExpired(biztime.NowUTC()) {
		valid = false
		if lic.MarkExpired() {
			if err := uc.licenseRepo.Update(ctx, lic); err != nil {
				uc.logger.Errorw("failed to persist lazy expiry", "license_id", lic.ID(), "error", err)
				return nil, fmt.Errorf("failed to update license: %w", err)
			}
		}
	}

	period, err := uc.creditRepo.GetActivePeriod(ctx, lic.ID(), biztime.Today())
	if err != nil {
		uc.logger.Errorw("failed to load credit period", "license_id", lic.ID(), "error", err)
		return nil, fmt.Errorf("failed to load credit period: %w", err)
	}

	// A missing period is not an error: no billing window has been
	// provisioned yet, so the snapshot reports zero.
	remaining, total := 0, 0
	if period != nil {
		remaining = period.Remaining()
		total = period.CreditsTotal()
	}

	if lic.UpdateSiteURL(cmd.SiteURL) {
		err := uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
				return fmt.Errorf("failed to update site URL: %w", err)
			}
			activity, err := license.NewActivity(lic.ID(), license.ActivityValidation, nil, cmd.Meta,
				map[string]interface{}{"site_url": cmd.SiteURL})
			if err != nil {
				return err
			}
			return uc.activityRepo.Append(txCtx, activity)
		})
		if err != nil {
			uc.logger.Errorw("failed to record validation origin", "license_id", lic.ID(), "error", err)
			return nil, err
		}
	}

	siteURL := lic.SiteURL()
	if siteURL == "" {
		siteURL = cmd.SiteURL
	}

	return &ValidateLicenseResult{
		Valid:            valid,
		Status:           lic.Status(),
		CreditsRemaining: remaining,
		CreditsTotal:     total,
		SiteURL:          siteURL,
		PlanName:         lic.PlanName(),
		ExpiresAt:        lic.ExpiresAt(),
	}, nil
}
