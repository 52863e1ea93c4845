package subscription

import "errors"

var (
	// ErrSubscriptionNotFound is returned when no subscription exists
	// for the given session.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
