package core

import (
	"time"
)

// ReservationExpiredEventType is the event type identifier.
const ReservationExpiredEventType = "ReservationExpired"

// ReservationExpired represents when the hold window of a READY reservation ran out unclaimed.
type ReservationExpired struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	PatronID      PatronIDString
	OccurredAt    OccurredAtTS
}

// BuildReservationExpired creates a new ReservationExpired event.
func BuildReservationExpired(
	reservationID ReservationIDString,
	bookID BookIDString,
	patronID PatronIDString,
	occurredAt time.Time,
) ReservationExpired {

	return ReservationExpired{
		EventType:     ReservationExpiredEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		PatronID:      patronID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationExpired) IsEventType() string {
	return ReservationExpiredEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationExpired) HasOccurredAt() time.Time {
	return e.OccurredAt
}
