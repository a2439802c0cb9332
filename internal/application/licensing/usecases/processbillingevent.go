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

// ProcessBillingEventUseCase applies verified billing provider events to the
// license store and the credit ledger. Every handler is idempotent under
// redelivery: licenses are matched by the provider's stable subscription or
// customer identifier, and the period upsert never resets consumption.
type ProcessBillingEventUseCase struct {
	licenseRepo  license.Repository
	activityRepo license.ActivityRepository
	establishUC  *EstablishPeriodUseCase
	catalog      *credit.Catalog
	tm           TransactionManager
	logger       logger.Interface
}

func NewProcessBillingEventUseCase(
	licenseRepo license.Repository,
	activityRepo license.ActivityRepository,
	establishUC *EstablishPeriodUseCase,
	catalog *credit.Catalog,
	tm TransactionManager,
	logger logger.Interface,
) *ProcessBillingEventUseCase {
	return &ProcessBillingEventUseCase{
		licenseRepo:  licenseRepo,
		activityRepo: activityRepo,
		establishUC:  establishUC,
		catalog:      catalog,
		tm:           tm,
		logger:       logger,
	}
}

// Execute dispatches the event and reports whether it was acted on. A nil
// event (an unrecognized provider type) is acknowledged without effect.
func (uc *ProcessBillingEventUseCase) Execute(ctx context.Context, event BillingEvent, meta license.RequestMeta) (bool, error) {
	switch e := event.(type) {
	case SubscriptionCreated:
		return true, uc.handleSubscriptionCreated(ctx, e, meta)
	case SubscriptionUpdated:
		return true, uc.handleSubscriptionUpdated(ctx, e, meta)
	case SubscriptionDeleted:
		return true, uc.handleSubscriptionDeleted(ctx, e, meta)
	case InvoicePaymentSucceeded:
		return true, uc.handleInvoicePaymentSucceeded(ctx, e, meta)
	case InvoicePaymentFailed:
		return true, uc.handleInvoicePaymentFailed(ctx, e, meta)
	case nil:
		return false, nil
	default:
		return false, nil
	}
}

func (uc *ProcessBillingEventUseCase) handleSubscriptionCreated(ctx context.Context, e SubscriptionCreated, meta license.RequestMeta) error {
	status := license.StatusTrial
	if e.ProviderStatus == "active" {
		status = license.StatusActive
	}

	// A fresh key is generated up front; on redelivery the upsert leaves the
	// existing row's key untouched, so only the first insert assigns it.
	key, err := license.GenerateKey()
	if err != nil {
		return err
	}

	// Expiry keeps the provider's exact timestamp; a paid subscription is
	// good until the very end of its period, not the start of its last day.
	expiresAt := biztime.FromUnix(e.CurrentPeriodEnd)
	lic, err := license.NewLicense(key, e.Email, e.CustomerID, e.SubscriptionID, e.PriceID,
		uc.catalog.NameFor(e.PriceID), status, &expiresAt)
	if err != nil {
		return fmt.Errorf("failed to build license: %w", err)
	}

	return uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		created, err := uc.licenseRepo.Upsert(txCtx, lic)
		if err != nil {
			return fmt.Errorf("failed to upsert license: %w", err)
		}

		if lic.ID() == 0 {
			// The upsert hit an existing row; resolve it for the ledger and
			// the audit trail.
			existing, err := uc.licenseRepo.GetBySubscriptionID(txCtx, e.SubscriptionID)
			if err != nil {
				return fmt.Errorf("failed to resolve upserted license: %w", err)
			}
			if existing == nil {
				return fmt.Errorf("license vanished after upsert for subscription %s", e.SubscriptionID)
			}
			lic = existing
		}

		if _, err := uc.establishUC.Execute(txCtx, EstablishPeriodCommand{
			LicenseID:   lic.ID(),
			PriceID:     e.PriceID,
			PeriodStart: biztime.FromUnixDate(e.CurrentPeriodStart),
			PeriodEnd:   biztime.FromUnixDate(e.CurrentPeriodEnd),
		}); err != nil {
			return err
		}

		uc.logger.Infow("license provisioned from subscription",
			"subscription_id", e.SubscriptionID, "created", created, "status", status.String())

		return uc.appendActivity(txCtx, lic.ID(), license.ActivityCreated, nil, meta,
			map[string]interface{}{"subscription_id": e.SubscriptionID})
	})
}

func (uc *ProcessBillingEventUseCase) handleSubscriptionUpdated(ctx context.Context, e SubscriptionUpdated, meta license.RequestMeta) error {
	return uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		lic, err := uc.licenseRepo.GetBySubscriptionID(txCtx, e.SubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to look up license: %w", err)
		}
		if lic == nil {
			uc.logger.Warnw("subscription update for unknown license", "subscription_id", e.SubscriptionID)
			return nil
		}

		status := license.StatusFromProvider(e.ProviderStatus)
		expiresAt := biztime.FromUnix(e.CurrentPeriodEnd)
		lic.ApplyProviderUpdate(e.PriceID, uc.catalog.NameFor(e.PriceID), status, &expiresAt)

		if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
			return fmt.Errorf("failed to update license: %w", err)
		}

		return uc.appendActivity(txCtx, lic.ID(), license.ActivityRenewed, nil, meta,
			map[string]interface{}{"status": status.String()})
	})
}

func (uc *ProcessBillingEventUseCase) handleSubscriptionDeleted(ctx context.Context, e SubscriptionDeleted, meta license.RequestMeta) error {
	return uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		lic, err := uc.licenseRepo.GetBySubscriptionID(txCtx, e.SubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to look up license: %w", err)
		}
		if lic == nil {
			uc.logger.Warnw("subscription deletion for unknown license", "subscription_id", e.SubscriptionID)
			return nil
		}

		lic.Cancel(biztime.NowUTC())
		if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
			return fmt.Errorf("failed to cancel license: %w", err)
		}

		return uc.appendActivity(txCtx, lic.ID(), license.ActivityCancelled, nil, meta, nil)
	})
}

func (uc *ProcessBillingEventUseCase) handleInvoicePaymentSucceeded(ctx context.Context, e InvoicePaymentSucceeded, meta license.RequestMeta) error {
	if e.SubscriptionID == "" {
		return nil
	}

	periodStart := e.PeriodStart
	periodEnd := e.PeriodEnd
	if periodStart == 0 {
		periodStart = biztime.NowUTC().Unix()
	}
	if periodEnd == 0 {
		periodEnd = biztime.NowUTC().AddDate(0, 1, 0).Unix()
	}

	return uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		lic, err := uc.licenseRepo.GetBySubscriptionID(txCtx, e.SubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to look up license: %w", err)
		}
		if lic == nil {
			uc.logger.Warnw("invoice payment for unknown license", "subscription_id", e.SubscriptionID)
			return nil
		}

		lic.Reactivate()
		if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
			return fmt.Errorf("failed to reactivate license: %w", err)
		}

		credits, err := uc.establishUC.Execute(txCtx, EstablishPeriodCommand{
			LicenseID:   lic.ID(),
			PriceID:     lic.StripePriceID(),
			PeriodStart: time.Unix(periodStart, 0),
			PeriodEnd:   time.Unix(periodEnd, 0),
		})
		if err != nil {
			return err
		}

		return uc.appendActivity(txCtx, lic.ID(), license.ActivityCreditsRefreshed, &credits, meta, nil)
	})
}

func (uc *ProcessBillingEventUseCase) handleInvoicePaymentFailed(ctx context.Context, e InvoicePaymentFailed, meta license.RequestMeta) error {
	if e.SubscriptionID == "" {
		return nil
	}

	return uc.tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		lic, err := uc.licenseRepo.GetBySubscriptionID(txCtx, e.SubscriptionID)
		if err != nil {
			return fmt.Errorf("failed to look up license: %w", err)
		}
		if lic == nil {
			uc.logger.Warnw("failed payment for unknown license", "subscription_id", e.SubscriptionID)
			return nil
		}

		lic.Suspend()
		if err := uc.licenseRepo.Update(txCtx, lic); err != nil {
			return fmt.Errorf("failed to suspend license: %w", err)
		}

		return uc.appendActivity(txCtx, lic.ID(), license.ActivitySuspended, nil, meta,
			map[string]interface{}{"reason": "payment_failed"})
	})
}

func (uc *ProcessBillingEventUseCase) appendActivity(ctx context.Context, licenseID uint, activityType license.ActivityType, creditsAmount *int, meta license.RequestMeta, metadata map[string]interface{}) error {
	activity, err := license.NewActivity(licenseID, activityType, creditsAmount, meta, metadata)
	if err != nil {
		return err
	}
	if err := uc.activityRepo.Append(ctx, activity); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
