// Package expiry implements the pure expiry policy: resolving an expiry
// date for a new lot and classifying freshness at read time.
package expiry

import (
	"errors"
	"time"
)

// DefaultShelfLifeDays is the fallback shelf life applied when neither an
// explicit expiry nor a catalog default is available.
const DefaultShelfLifeDays = 7

// DefaultFreshnessThresholdDays separates fresh from expiring_soon.
const DefaultFreshnessThresholdDays = 3

// ErrInvalidTimestamp is returned for zero or otherwise malformed times.
var ErrInvalidTimestamp = errors.New("expiry: invalid timestamp")

// Source records where a lot's expiry date came from. Lots with a default
// source are recomputed when the catalog shelf life changes.
type Source string

// Expiry sources.
const (
	SourceUser    Source = "user"    // explicit date or days supplied by the caller
	SourceDefault Source = "default" // derived from the catalog shelf life
)

// Freshness is the read-time classification of a lot.
type Freshness string

// Freshness tiers.
const (
	Fresh        Freshness = "fresh"
	ExpiringSoon Freshness = "expiring_soon"
	Expired      Freshness = "expired"
)

// Resolve computes the expiry timestamp for a lot entered at enteredAt.
// An explicit expiry always wins; otherwise defaultDays (the catalog shelf
// life, or DefaultShelfLifeDays when the catalog has no entry) is added to
// the entry date.
func Resolve(enteredAt time.Time, explicit *time.Time, defaultDays int) (time.Time, Source, error) {
	if enteredAt.IsZero() {
		return time.Time{}, "", ErrInvalidTimestamp
	}

	if explicit != nil {
		if explicit.IsZero() {
			return time.Time{}, "", ErrInvalidTimestamp
		}
		return explicit.UTC(), SourceUser, nil
	}

	if defaultDays <= 0 {
		defaultDays = DefaultShelfLifeDays
	}

	return enteredAt.UTC().AddDate(0, 0, defaultDays), SourceDefault, nil
}

// Classify buckets a lot by whole days remaining until expiry:
// more than thresholdDays left is fresh, anything up to and including the
// threshold is expiring_soon, zero or negative is expired.
func Classify(now, expiresAt time.Time, thresholdDays int) (Freshness, error) {
	if now.IsZero() || expiresAt.IsZero() {
		return "", ErrInvalidTimestamp
	}
	if thresholdDays < 0 {
		thresholdDays = DefaultFreshnessThresholdDays
	}

	remaining := DaysRemaining(now, expiresAt)
	switch {
	case remaining <= 0:
		return Expired, nil
	case remaining <= thresholdDays:
		return ExpiringSoon, nil
	default:
		return Fresh, nil
	}
}

// DaysRemaining returns the number of whole days between now and expiresAt,
// comparing calendar dates in UTC. Same-day expiry counts as zero.
func DaysRemaining(now, expiresAt time.Time) int {
	nowDate := truncateToDate(now)
	expDate := truncateToDate(expiresAt)

	return int(expDate.Sub(nowDate) / (24 * time.Hour))
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
