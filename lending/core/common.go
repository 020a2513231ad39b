package core

import (
	"time"
)

// BookIDString represents a book identifier
type BookIDString = string

// PatronIDString represents a patron identifier
type PatronIDString = string

// ReservationIDString represents a reservation identifier, generated by the caller.
type ReservationIDString = string

// ISBNString represents an ISBN identifier
type ISBNString = string

// EventTypeString represents the type identifier of a domain event
type EventTypeString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision,
// which is what the event store engines persist.
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}

// ReservationState is the lifecycle state of a reservation.
type ReservationState = string

const (
	ReservationStatePending   ReservationState = "PENDING"
	ReservationStateReady     ReservationState = "READY"
	ReservationStateFulfilled ReservationState = "FULFILLED"
	ReservationStateExpired   ReservationState = "EXPIRED"
	ReservationStateCancelled ReservationState = "CANCELLED"
)

// IsTerminalReservationState reports whether a reservation in this state can no longer change.
func IsTerminalReservationState(state ReservationState) bool {
	return state == ReservationStateFulfilled || state == ReservationStateExpired || state == ReservationStateCancelled
}
