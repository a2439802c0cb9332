package license

import (
	"fmt"
	"time"

	"github.com/writgo/licensing/internal/shared/biztime"
)

// ActivityType classifies entries in the license audit trail.
type ActivityType string

const (
	ActivityCreated          ActivityType = "created"
	ActivityRenewed          ActivityType = "renewed"
	ActivityCancelled        ActivityType = "cancelled"
	ActivitySuspended        ActivityType = "suspended"
	ActivityCreditsConsumed  ActivityType = "credits_consumed"
	ActivityCreditsRefreshed ActivityType = "credits_refreshed"
	ActivityValidation       ActivityType = "validation"
)

// RequestMeta carries caller metadata recorded with an activity entry.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Activity is one append-only entry in a license's audit trail. Entries are
// never mutated or deleted, and survive license cancellation.
type Activity struct {
	id            uint
	licenseID     uint
	activityType  ActivityType
	creditsAmount *int
	ipAddress     string
	userAgent     string
	metadata      map[string]interface{}
	createdAt     time.Time
}

// NewActivity creates an audit entry for a license.
func NewActivity(licenseID uint, activityType ActivityType, creditsAmount *int, meta RequestMeta, metadata map[string]interface{}) (*Activity, error) {
	if licenseID == 0 {
		return nil, fmt.Errorf("license ID is required")
	}
	if activityType == "" {
		return nil, fmt.Errorf("activity type is required")
	}

	return &Activity{
		licenseID:     licenseID,
		activityType:  activityType,
		creditsAmount: creditsAmount,
		ipAddress:     meta.IPAddress,
		userAgent:     meta.UserAgent,
		metadata:      metadata,
		createdAt:     biztime.NowUTC(),
	}, nil
}

func (a *Activity) ID() uint                         { return a.id }
func (a *Activity) LicenseID() uint                  { return a.licenseID }
func (a *Activity) Type() ActivityType               { return a.activityType }
func (a *Activity) CreditsAmount() *int              { return a.creditsAmount }
func (a *Activity) IPAddress() string                { return a.ipAddress }
func (a *Activity) UserAgent() string                { return a.userAgent }
func (a *Activity) Metadata() map[string]interface{} { return a.metadata }
func (a *Activity) CreatedAt() time.Time             { return a.createdAt }

// SetID assigns the database-generated identifier after insertion.
func (a *Activity) SetID(id uint) {
	a.id = id
}
