package license

// Status represents the lifecycle state of a license. Transitions are driven
// only by billing events and expiry checks, never by client input.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// ValidStatuses is the set of statuses accepted from persistence.
var ValidStatuses = map[Status]bool{
	StatusActive:    true,
	StatusTrial:     true,
	StatusSuspended: true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsUsable reports whether the status allows validation and credit
// consumption.
func (s Status) IsUsable() bool {
	return s == StatusActive || s == StatusTrial
}

// providerStatusMap translates billing provider subscription statuses into
// license statuses. Unknown provider statuses fail closed to suspended.
var providerStatusMap = map[string]Status{
	"active":   StatusActive,
	"trialing": StatusTrial,
	"past_due": StatusSuspended,
	"canceled": StatusCancelled,
	"unpaid":   StatusSuspended,
}

// StatusFromProvider maps a provider subscription status onto the license
// lifecycle. Statuses this service does not recognize suspend the license
// rather than leaving it usable.
func StatusFromProvider(providerStatus string) Status {
	if status, ok := providerStatusMap[providerStatus]; ok {
		return status
	}
	return StatusSuspended
}
