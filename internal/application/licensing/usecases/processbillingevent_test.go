package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
)

func testCatalog() *credit.Catalog {
	return credit.NewCatalog([]credit.Plan{
		{PriceID: "price_starter_monthly", Name: "Starter", MonthlyCredits: 100},
		{PriceID: "price_professional_monthly", Name: "Professional", MonthlyCredits: 500},
	})
}

func newProcessUseCase(
	licenseRepo *mockLicenseRepository,
	creditRepo *mockCreditRepository,
	activityRepo *mockActivityRepository,
) *ProcessBillingEventUseCase {
	catalog := testCatalog()
	establishUC := NewEstablishPeriodUseCase(creditRepo, catalog, &mockLogger{})
	return NewProcessBillingEventUseCase(licenseRepo, activityRepo, establishUC, catalog, &mockTransactionManager{}, &mockLogger{})
}

func TestProcessBillingEventUseCase_SubscriptionCreated(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		wantStatus     license.Status
	}{
		{name: "active subscription", providerStatus: "active", wantStatus: license.StatusActive},
		{name: "trialing subscription", providerStatus: "trialing", wantStatus: license.StatusTrial},
		{name: "incomplete subscription", providerStatus: "incomplete", wantStatus: license.StatusTrial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var upserted *license.License
			licenseRepo := &mockLicenseRepository{
				UpsertFunc: func(ctx context.Context, l *license.License) (bool, error) {
					upserted = l
					l.SetID(7)
					return true, nil
				},
			}

			var period *credit.Period
			creditRepo := &mockCreditRepository{
				UpsertPeriodFunc: func(ctx context.Context, p *credit.Period) error {
					period = p
					return nil
				},
			}

			var activity *license.Activity
			activityRepo := &mockActivityRepository{
				AppendFunc: func(ctx context.Context, a *license.Activity) error {
					activity = a
					return nil
				},
			}

			uc := newProcessUseCase(licenseRepo, creditRepo, activityRepo)

			now := time.Now().UTC()
			handled, err := uc.Execute(context.Background(), SubscriptionCreated{
				SubscriptionID:     "sub_new",
				CustomerID:         "cus_new",
				PriceID:            "price_professional_monthly",
				ProviderStatus:     tt.providerStatus,
				CurrentPeriodStart: now.Unix(),
				CurrentPeriodEnd:   now.AddDate(0, 1, 0).Unix(),
			}, license.RequestMeta{})

			require.NoError(t, err)
			assert.True(t, handled)

			require.NotNil(t, upserted)
			assert.Equal(t, tt.wantStatus, upserted.Status())
			assert.Equal(t, "sub_new", upserted.StripeSubscriptionID())
			assert.Equal(t, "Professional", upserted.PlanName())
			assert.Regexp(t, `^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`, upserted.Key().String())

			require.NotNil(t, period)
			assert.Equal(t, uint(7), period.LicenseID())
			assert.Equal(t, 500, period.CreditsTotal())
			assert.Equal(t, 0, period.CreditsUsed())

			require.NotNil(t, activity)
			assert.Equal(t, license.ActivityCreated, activity.Type())
			assert.Equal(t, "sub_new", activity.Metadata()["subscription_id"])
		})
	}
}

func TestProcessBillingEventUseCase_SubscriptionCreated_ExpiryKeepsTimeOfDay(t *testing.T) {
	var upserted *license.License
	licenseRepo := &mockLicenseRepository{
		UpsertFunc: func(ctx context.Context, l *license.License) (bool, error) {
			_ = l.SetID(7)
			upserted = l
			return true, nil
		},
	}

	uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, &mockActivityRepository{})

	// A period ending later today must leave the license valid until that
	// exact second, not until the previous midnight.
	now := time.Now().UTC()
	periodEnd := now.Add(2 * time.Hour)
	handled, err := uc.Execute(context.Background(), SubscriptionCreated{
		SubscriptionID:     "sub_new",
		CustomerID:         "cus_new",
		PriceID:            "price_professional_monthly",
		ProviderStatus:     "active",
		CurrentPeriodStart: now.AddDate(0, -1, 0).Unix(),
		CurrentPeriodEnd:   periodEnd.Unix(),
	}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)

	require.NotNil(t, upserted)
	require.NotNil(t, upserted.ExpiresAt())
	assert.Equal(t, periodEnd.Truncate(time.Second), *upserted.ExpiresAt())
	assert.False(t, upserted.IsExpired(now))
}

func TestProcessBillingEventUseCase_SubscriptionCreated_Redelivery(t *testing.T) {
	existing := reconstructLicense(t, license.StatusActive, nil, "")

	resolved := false
	licenseRepo := &mockLicenseRepository{
		UpsertFunc: func(ctx context.Context, l *license.License) (bool, error) {
			// Duplicate delivery: the row already exists, no ID is assigned.
			return false, nil
		},
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			resolved = true
			assert.Equal(t, "sub_123", subscriptionID)
			return existing, nil
		},
	}

	var period *credit.Period
	creditRepo := &mockCreditRepository{
		UpsertPeriodFunc: func(ctx context.Context, p *credit.Period) error {
			period = p
			return nil
		},
	}

	uc := newProcessUseCase(licenseRepo, creditRepo, &mockActivityRepository{})

	now := time.Now().UTC()
	handled, err := uc.Execute(context.Background(), SubscriptionCreated{
		SubscriptionID:     "sub_123",
		CustomerID:         "cus_123",
		PriceID:            "price_professional_monthly",
		ProviderStatus:     "active",
		CurrentPeriodStart: now.Unix(),
		CurrentPeriodEnd:   now.AddDate(0, 1, 0).Unix(),
	}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, resolved, "existing license must be resolved for the ledger")
	require.NotNil(t, period)
	assert.Equal(t, existing.ID(), period.LicenseID())
}

func TestProcessBillingEventUseCase_SubscriptionUpdated(t *testing.T) {
	tests := []struct {
		name           string
		providerStatus string
		wantStatus     license.Status
	}{
		{name: "active", providerStatus: "active", wantStatus: license.StatusActive},
		{name: "trialing", providerStatus: "trialing", wantStatus: license.StatusTrial},
		{name: "past due", providerStatus: "past_due", wantStatus: license.StatusSuspended},
		{name: "canceled", providerStatus: "canceled", wantStatus: license.StatusCancelled},
		{name: "unpaid", providerStatus: "unpaid", wantStatus: license.StatusSuspended},
		{name: "unknown maps to suspended", providerStatus: "paused", wantStatus: license.StatusSuspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lic := reconstructLicense(t, license.StatusActive, nil, "")

			var updated *license.License
			licenseRepo := &mockLicenseRepository{
				GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
					return lic, nil
				},
				UpdateFunc: func(ctx context.Context, l *license.License) error {
					updated = l
					return nil
				},
			}

			var activity *license.Activity
			activityRepo := &mockActivityRepository{
				AppendFunc: func(ctx context.Context, a *license.Activity) error {
					activity = a
					return nil
				},
			}

			uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, activityRepo)

			handled, err := uc.Execute(context.Background(), SubscriptionUpdated{
				SubscriptionID:   "sub_123",
				PriceID:          "price_starter_monthly",
				ProviderStatus:   tt.providerStatus,
				CurrentPeriodEnd: time.Now().AddDate(0, 1, 0).Unix(),
			}, license.RequestMeta{})

			require.NoError(t, err)
			assert.True(t, handled)

			require.NotNil(t, updated)
			assert.Equal(t, tt.wantStatus, updated.Status())
			assert.Equal(t, "price_starter_monthly", updated.StripePriceID())
			assert.Equal(t, "Starter", updated.PlanName())

			require.NotNil(t, activity)
			assert.Equal(t, license.ActivityRenewed, activity.Type())
			assert.Equal(t, tt.wantStatus.String(), activity.Metadata()["status"])
		})
	}
}

func TestProcessBillingEventUseCase_SubscriptionUpdated_UnknownLicense(t *testing.T) {
	licenseRepo := &mockLicenseRepository{
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			return nil, nil
		},
	}

	uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, &mockActivityRepository{})

	handled, err := uc.Execute(context.Background(), SubscriptionUpdated{
		SubscriptionID: "sub_missing",
		ProviderStatus: "active",
	}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)
}

func TestProcessBillingEventUseCase_SubscriptionDeleted(t *testing.T) {
	lic := reconstructLicense(t, license.StatusActive, nil, "")

	var updated *license.License
	licenseRepo := &mockLicenseRepository{
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			return lic, nil
		},
		UpdateFunc: func(ctx context.Context, l *license.License) error {
			updated = l
			return nil
		},
	}

	var activity *license.Activity
	activityRepo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *license.Activity) error {
			activity = a
			return nil
		},
	}

	uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, activityRepo)

	handled, err := uc.Execute(context.Background(), SubscriptionDeleted{SubscriptionID: "sub_123"}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)

	require.NotNil(t, updated)
	assert.Equal(t, license.StatusCancelled, updated.Status())
	require.NotNil(t, updated.ExpiresAt())

	require.NotNil(t, activity)
	assert.Equal(t, license.ActivityCancelled, activity.Type())
}

func TestProcessBillingEventUseCase_InvoicePaymentSucceeded(t *testing.T) {
	lic := reconstructLicense(t, license.StatusSuspended, nil, "")

	var updated *license.License
	licenseRepo := &mockLicenseRepository{
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			return lic, nil
		},
		UpdateFunc: func(ctx context.Context, l *license.License) error {
			updated = l
			return nil
		},
	}

	var period *credit.Period
	creditRepo := &mockCreditRepository{
		UpsertPeriodFunc: func(ctx context.Context, p *credit.Period) error {
			period = p
			return nil
		},
	}

	var activity *license.Activity
	activityRepo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *license.Activity) error {
			activity = a
			return nil
		},
	}

	uc := newProcessUseCase(licenseRepo, creditRepo, activityRepo)

	now := time.Now().UTC()
	handled, err := uc.Execute(context.Background(), InvoicePaymentSucceeded{
		SubscriptionID: "sub_123",
		PeriodStart:    now.Unix(),
		PeriodEnd:      now.AddDate(0, 1, 0).Unix(),
	}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)

	require.NotNil(t, updated)
	assert.Equal(t, license.StatusActive, updated.Status())

	require.NotNil(t, period)
	assert.Equal(t, 500, period.CreditsTotal(), "credits follow the license's price")

	require.NotNil(t, activity)
	assert.Equal(t, license.ActivityCreditsRefreshed, activity.Type())
	require.NotNil(t, activity.CreditsAmount())
	assert.Equal(t, 500, *activity.CreditsAmount())
}

func TestProcessBillingEventUseCase_InvoicePaymentSucceeded_NoSubscription(t *testing.T) {
	lookups := 0
	licenseRepo := &mockLicenseRepository{
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			lookups++
			return nil, nil
		},
	}

	uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, &mockActivityRepository{})

	handled, err := uc.Execute(context.Background(), InvoicePaymentSucceeded{}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled, "recognized event types are acknowledged as handled")
	assert.Equal(t, 0, lookups)
}

func TestProcessBillingEventUseCase_InvoicePaymentFailed(t *testing.T) {
	lic := reconstructLicense(t, license.StatusActive, nil, "")

	var updated *license.License
	licenseRepo := &mockLicenseRepository{
		GetBySubscriptionIDFunc: func(ctx context.Context, subscriptionID string) (*license.License, error) {
			return lic, nil
		},
		UpdateFunc: func(ctx context.Context, l *license.License) error {
			updated = l
			return nil
		},
	}

	var activity *license.Activity
	activityRepo := &mockActivityRepository{
		AppendFunc: func(ctx context.Context, a *license.Activity) error {
			activity = a
			return nil
		},
	}

	uc := newProcessUseCase(licenseRepo, &mockCreditRepository{}, activityRepo)

	handled, err := uc.Execute(context.Background(), InvoicePaymentFailed{SubscriptionID: "sub_123"}, license.RequestMeta{})

	require.NoError(t, err)
	assert.True(t, handled)

	require.NotNil(t, updated)
	assert.Equal(t, license.StatusSuspended, updated.Status())

	require.NotNil(t, activity)
	assert.Equal(t, license.ActivitySuspended, activity.Type())
	assert.Equal(t, "payment_failed", activity.Metadata()["reason"])
}

func TestProcessBillingEventUseCase_NilEvent(t *testing.T) {
	uc := newProcessUseCase(&mockLicenseRepository{}, &mockCreditRepository{}, &mockActivityRepository{})

	handled, err := uc.Execute(context.Background(), nil, license.RequestMeta{})

	require.NoError(t, err)
	assert.False(t, handled)
}

func TestEstablishPeriodUseCase_UnknownPrice(t *testing.T) {
	upserts := 0
	creditRepo := &mockCreditRepository{
		UpsertPeriodFunc: func(ctx context.Context, p *credit.Period) error {
			upserts++
			return nil
		},
	}

	uc := NewEstablishPeriodUseCase(creditRepo, testCatalog(), &mockLogger{})

	credits, err := uc.Execute(context.Background(), EstablishPeriodCommand{
		LicenseID:   42,
		PriceID:     "price_unmapped",
		PeriodStart: time.Now(),
		PeriodEnd:   time.Now().AddDate(0, 1, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, 0, credits)
	assert.Equal(t, 0, upserts, "unknown price IDs provision nothing")
}

func TestEstablishPeriodUseCase_KnownPrice(t *testing.T) {
	var period *credit.Period
	creditRepo := &mockCreditRepository{
		UpsertPeriodFunc: func(ctx context.Context, p *credit.Period) error {
			period = p
			return nil
		},
	}

	uc := NewEstablishPeriodUseCase(creditRepo, testCatalog(), &mockLogger{})

	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	credits, err := uc.Execute(context.Background(), EstablishPeriodCommand{
		LicenseID:   42,
		PriceID:     "price_starter_monthly",
		PeriodStart: start,
		PeriodEnd:   end,
	})

	require.NoError(t, err)
	assert.Equal(t, 100, credits)

	require.NotNil(t, period)
	assert.Equal(t, 100, period.CreditsTotal())
	assert.Equal(t, 0, period.CreditsUsed())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), period.PeriodStart(), "period boundaries are stored as dates")
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), period.PeriodEnd())
}
