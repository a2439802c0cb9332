// Package license contains the license aggregate: a billing-plan entitlement
// identified by a unique key whose lifecycle mirrors an external subscription.
package license

import (
	"fmt"
	"time"

	"github.com/writgo/licensing/internal/shared/biztime"
)

// License represents the license aggregate root.
type License struct {
	id                   uint
	key                  Key
	email                string
	siteURL              string
	status               Status
	planName             string
	stripeCustomerID     string
	stripeSubscriptionID string
	stripePriceID        string
	activatedAt          time.Time
	expiresAt            *time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

// NewLicense creates a license for a fresh billing subscription.
func NewLicense(key Key, email, customerID, subscriptionID, priceID, planName string, status Status, expiresAt *time.Time) (*License, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}
	if customerID == "" {
		return nil, fmt.Errorf("billing customer ID is required")
	}
	if subscriptionID == "" {
		return nil, fmt.Errorf("billing subscription ID is required")
	}
	if !status.IsUsable() {
		return nil, fmt.Errorf("new license status must be active or trial, got %s", status)
	}

	now := biztime.NowUTC()
	return &License{
		key:                  key,
		email:                email,
		status:               status,
		planName:             planName,
		stripeCustomerID:     customerID,
		stripeSubscriptionID: subscriptionID,
		stripePriceID:        priceID,
		activatedAt:          now,
		expiresAt:            expiresAt,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructParams carries the persisted state of a license.
type ReconstructParams struct {
	ID                   uint
	Key                  Key
	Email                string
	SiteURL              string
	Status               Status
	PlanName             string
	StripeCustomerID     string
	StripeSubscriptionID string
	StripePriceID        string
	ActivatedAt          time.Time
	ExpiresAt            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Reconstruct rebuilds a license from persistence.
func Reconstruct(p ReconstructParams) (*License, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("license ID cannot be zero")
	}
	if p.Key == "" {
		return nil, ErrKeyRequired
	}
	if !ValidStatuses[p.Status] {
		return nil, fmt.Errorf("invalid license status: %s", p.Status)
	}

	return &License{
		id:                   p.ID,
		key:                  p.Key,
		email:                p.Email,
		siteURL:              p.SiteURL,
		status:               p.Status,
		planName:             p.PlanName,
		stripeCustomerID:     p.StripeCustomerID,
		stripeSubscriptionID: p.StripeSubscriptionID,
		stripePriceID:        p.StripePriceID,
		activatedAt:          p.ActivatedAt,
		expiresAt:            p.ExpiresAt,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (l *License) ID() uint                     { return l.id }
func (l *License) Key() Key                     { return l.key }
func (l *License) Email() string                { return l.email }
func (l *License) SiteURL() string              { return l.siteURL }
func (l *License) Status() Status               { return l.status }
func (l *License) PlanName() string             { return l.planName }
func (l *License) StripeCustomerID() string     { return l.stripeCustomerID }
func (l *License) StripeSubscriptionID() string { return l.stripeSubscriptionID }
func (l *License) StripePriceID() string        { return l.stripePriceID }
func (l *License) ActivatedAt() time.Time       { return l.activatedAt }
func (l *License) ExpiresAt() *time.Time        { return l.expiresAt }
func (l *License) CreatedAt() time.Time         { return l.createdAt }
func (l *License) UpdatedAt() time.Time         { return l.updatedAt }

// SetID assigns the database-generated identifier after insertion.
func (l *License) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("license ID already set")
	}
	if id == 0 {
		return fmt.Errorf("license ID cannot be zero")
	}
	l.id = id
	return nil
}

// IsExpired reports whether the license expiry has passed at the given time.
// A license without an expiry never expires.
func (l *License) IsExpired(now time.Time) bool {
	return l.expiresAt != nil && l.expiresAt.Before(now)
}

// MarkExpired transitions the license to expired. It reports whether the
// status actually changed so callers can skip redundant writes.
func (l *License) MarkExpired() bool {
	if l.status == StatusExpired {
		return false
	}
	l.status = StatusExpired
	l.updatedAt = biztime.NowUTC()
	return true
}

// UpdateSiteURL records the last origin that validated this license. It
// reports whether the stored value changed.
func (l *License) UpdateSiteURL(siteURL string) bool {
	if siteURL == "" || siteURL == l.siteURL {
		return false
	}
	l.siteURL = siteURL
	l.updatedAt = biztime.NowUTC()
	return true
}

// ApplyProviderUpdate refreshes plan, status and expiry from a subscription
// update delivered by the billing provider.
func (l *License) ApplyProviderUpdate(priceID, planName string, status Status, expiresAt *time.Time) {
	if priceID != "" {
		l.stripePriceID = priceID
	}
	if planName != "" {
		l.planName = planName
	}
	l.status = status
	l.expiresAt = expiresAt
	l.updatedAt = biztime.NowUTC()
}

// Cancel marks the license cancelled effective immediately.
func (l *License) Cancel(now time.Time) {
	l.status = StatusCancelled
	l.expiresAt = &now
	l.updatedAt = biztime.NowUTC()
}

// Suspend suspends the license after a failed payment.
func (l *License) Suspend() {
	l.status = StatusSuspended
	l.updatedAt = biztime.NowUTC()
}

// Reactivate returns the license to active after a successful payment.
func (l *License) Reactivate() {
	l.status = StatusActive
	l.updatedAt = biztime.NowUTC()
}
