package core

import (
	"time"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled represents when a patron withdraws a reservation.
// WasReady tells whether a copy was set aside for it and is released now.
type ReservationCancelled struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	PatronID      PatronIDString
	WasReady      bool
	OccurredAt    OccurredAtTS
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(
	reservationID ReservationIDString,
	bookID BookIDString,
	patronID PatronIDString,
	wasReady bool,
	occurredAt time.Time,
) ReservationCancelled {

	return ReservationCancelled{
		EventType:     ReservationCancelledEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		PatronID:      patronID,
		WasReady:      wasReady,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationCancelled) IsEventType() string {
	return ReservationCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
