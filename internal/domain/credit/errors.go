package credit

import "errors"

var (
	ErrNoActivePeriod      = errors.New("no credits available for current period")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownPlan         = errors.New("unknown billing plan")
)
