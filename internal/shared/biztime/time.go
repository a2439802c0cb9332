// Package biztime provides time utilities for billing calculations.
// All storage and transport use UTC; credit periods are tracked as whole
// UTC dates, so date boundaries are always computed in UTC.
package biztime

import "time"

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Today returns the current UTC date truncated to midnight.
func Today() time.Time {
	return DateOf(NowUTC())
}

// DateOf truncates t to its UTC date (midnight UTC).
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FromUnix converts epoch seconds to a UTC timestamp. Billing providers
// report subscription timestamps this way.
func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// FromUnixDate converts a Unix timestamp to its UTC date. Used for credit
// period boundaries, which are stored as whole dates.
func FromUnixDate(sec int64) time.Time {
	return DateOf(time.Unix(sec, 0))
}
