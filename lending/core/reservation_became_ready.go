package core

import (
	"time"
)

// ReservationBecameReadyEventType is the event type identifier.
const ReservationBecameReadyEventType = "ReservationBecameReady"

// ReservationBecameReady represents the promotion of the earliest PENDING reservation of a book
// after a copy was freed. The copy is set aside until ReadyExpiresAt.
type ReservationBecameReady struct {
	EventType      EventTypeString
	ReservationID  ReservationIDString
	BookID         BookIDString
	PatronID       PatronIDString
	ReadyExpiresAt time.Time
	OccurredAt     OccurredAtTS
}

// BuildReservationBecameReady creates a new ReservationBecameReady event.
func BuildReservationBecameReady(
	reservationID ReservationIDString,
	bookID BookIDString,
	patronID PatronIDString,
	readyExpiresAt time.Time,
	occurredAt time.Time,
) ReservationBecameReady {

	return ReservationBecameReady{
		EventType:      ReservationBecameReadyEventType,
		ReservationID:  reservationID,
		BookID:         bookID,
		PatronID:       patronID,
		ReadyExpiresAt: ToOccurredAt(readyExpiresAt),
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationBecameReady) IsEventType() string {
	return ReservationBecameReadyEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationBecameReady) HasOccurredAt() time.Time {
	return e.OccurredAt
}
