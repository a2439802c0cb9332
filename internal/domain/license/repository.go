package license

import "context"

// Repository persists licenses. Lookups return (nil, nil) when no row
// matches so callers can distinguish absence from storage failure.
type Repository interface {
	// Upsert inserts a license or, when a row with the same billing
	// subscription ID already exists, updates its plan, status, activation
	// and expiry in place. The insert-or-update must happen in a single
	// statement keyed on the unique subscription ID so concurrent duplicate
	// webhook deliveries cannot race a check-then-insert. It reports whether
	// a new row was created.
	Upsert(ctx context.Context, l *License) (created bool, err error)

	GetByKey(ctx context.Context, key Key) (*License, error)
	// GetByKeyForUpdate locks the license row for the duration of the
	// surrounding transaction.
	GetByKeyForUpdate(ctx context.Context, key Key) (*License, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*License, error)

	Update(ctx context.Context, l *License) error
}

// ActivityRepository appends entries to the license audit trail.
type ActivityRepository interface {
	Append(ctx context.Context, a *Activity) error
}
