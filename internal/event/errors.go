package event

import "errors"

// Sentinel errors for feeds.
var (
	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrFeedClosed is returned when subscribing to a closed feed.
	ErrFeedClosed = errors.New("feed is closed")
)

// PanicError wraps a panic value raised by a handler.
type PanicError struct {
	// SubscriptionID is the ID of the subscription whose handler panicked.
	SubscriptionID string

	// Feed is the name of the feed that was publishing.
	Feed string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "handler panic for subscription " + e.SubscriptionID + " on feed " + e.Feed
}
