package usecases

import (
	"fmt"

	"github.com/writgo/licensing/internal/domain/credit"
	"github.com/writgo/licensing/internal/domain/license"
)

// NotActiveError reports a consumption attempt against a license whose
// status forbids usage. It carries the current status for the response body.
type NotActiveError struct {
	Status license.Status
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("license is not active: %s", e.Status)
}

func (e *NotActiveError) Unwrap() error {
	return license.ErrLicenseNotActive
}

// InsufficientCreditsError reports a consumption attempt exceeding the
// period's remaining balance. Remaining is the true balance at the time the
// locked row was read.
type InsufficientCreditsError struct {
	Remaining int
	Requested int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d remaining, %d requested", e.Remaining, e.Requested)
}

func (e *InsufficientCreditsError) Unwrap() error {
	return credit.ErrInsufficientCredits
}
