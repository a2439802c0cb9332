package handlers

import (
	"context"

	"github.com/writgo/licensing/internal/application/licensing/usecases"
	"github.com/writgo/licensing/internal/domain/license"
)

// Use case interfaces for LicenseHandler and WebhookHandler

type validateLicenseUseCase interface {
	Execute(ctx context.Context, cmd usecases.ValidateLicenseCommand) (*usecases.ValidateLicenseResult, error)
}

type consumeCreditsUseCase interface {
	Execute(ctx context.Context, cmd usecases.ConsumeCreditsCommand) (*usecases.ConsumeCreditsResult, error)
}

type processBillingEventUseCase interface {
	Execute(ctx context.Context, event usecases.BillingEvent, meta license.RequestMeta) (bool, error)
}
