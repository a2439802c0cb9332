package usecases

import (
	"context"
	"fmt"
	"regexp"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
	"github.com/writgo/licensing/internal/shared/biztime"
	"github.com/writgo/licensing/internal/shared/logger"
)

// actionSanitizer strips everything outside [A-Za-z0-9_-] from the free-text
// action tag before it reaches the audit log.
var actionSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

const maxActionLength = 64

type ConsumeCreditsCommand struct {
	LicenseKey string
	Amount     int
	Action     string
	Meta       license.RequestMeta
}

type ConsumeCreditsResult struct {
	CreditsConsumed  int
	CreditsRemaining int
}

// ConsumeCreditsUseCase atomically debits credits from a license's current
// period. The license row and the period row are locked for update inside a
// single transaction, so concurrent requests against the same license
// serialize and credits_used can never exceed credits_total. Callers should
// treat consumption as non-idempotent: a client retry after a successful but
// unacknowledged response will debit again.
type ConsumeCreditsUseCase struct {
	licenseRepo  license.Repository
	creditRepo   credit.Repository
	activityRepo license.ActivityRepository
	tm           TransactionManager
	logger       logger.Interface
}

func NewConsumeCreditsUseCase(
	licenseRepo license.Repository,
	creditRepo credit.Repository,
	activityRepo license.ActivityRepository,
	tm TransactionManager,
	logger logger.Interface,
) *ConsumeCreditsUseCase {
	return &ConsumeCreditsUseCase{
		licenseRepo:  licenseRepo,
		creditRepo:   creditRepo,
		activityRepo: activityRepo,
		tm:           tm,
		logger:       logger,
	}
}

func (uc *ConsumeCreditsUseCase) Execute(ctx context.Context, cmd ConsumeCreditsCommand) (*ConsumeCreditsResult, error) {
	// Input validation happens before any transaction is opened; malformed
	// requests never touch the store.
	key, err := license.NewKey(cmd.LicenseKey)
	if err != nil {
		return nil, err
	}
	if cmd.Amount < credit.MinConsumeAmount || cmd.Amount > credit.MaxConsumeAmount {
		return nil, credit.ErrInvalidAmount
	}
	action := sanitizeAction(cmd.Action)

	var result *ConsumeCreditsResult
	err = uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		lic, err := uc.licenseRepo.GetByKeyForUpdate(txCtx, key)
		if err != nil {
			return fmt.Errorf("failed to lock license: %w", err)
		}
		if lic == nil {
			return license.ErrLicenseNotFound
		}
		if !lic.Status().IsUsable() {
			return &NotActiveError{Status: lic.Status()}
		}
		// Consumption never mutates license status; the lazy expiry write
		// belongs to the validation read path.
		if lic.IsExpired(biztime.NowUTC()) {
			return license.ErrLicenseExpired
		}

		period, err := uc.creditRepo.GetActivePeriodForUpdate(txCtx, lic.ID(), biztime.Today())
		if err != nil {
			return fmt.Errorf("failed to lock credit period: %w", err)
		}
		if period == nil {
			return credit.ErrNoActivePeriod
		}

		remaining := period.Remaining()
		if err := period.Consume(cmd.Amount); err != nil {
			if err == credit.ErrInsufficientCredits {
				return &InsufficientCreditsError{Remaining: remaining, Requested: cmd.Amount}
			}
			return err
		}

		if err := uc.creditRepo.UpdateUsage(txCtx, period); err != nil {
			return fmt.Errorf("failed to persist consumption: %w", err)
		}

		amount := cmd.Amount
		activity, err := license.NewActivity(lic.ID(), license.ActivityCreditsConsumed, &amount, cmd.Meta,
			map[string]interface{}{"action": action})
		if err != nil {
			return err
		}
		if err := uc.activityRepo.Append(txCtx, activity); err != nil {
			return fmt.Errorf("failed to append audit entry: %w", err)
		}

		result = &ConsumeCreditsResult{
			CreditsConsumed:  cmd.Amount,
			CreditsRemaining: period.Remaining(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("credits consumed",
		"license_key", key.String(),
		"amount", result.CreditsConsumed,
		"remaining", result.CreditsRemaining,
		"action", action)

	return result, nil
}

func sanitizeAction(action string) string {
	sanitized := actionSanitizer.ReplaceAllString(action, "")
	if len(sanitized) > maxActionLength {
		sanitized = sanitized[:maxActionLength]
	}
	if sanitized == "" {
		sanitized = "unknown"
	}
	return sanitized
}
