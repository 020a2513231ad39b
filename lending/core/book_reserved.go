package core

import (
	"time"
)

// BookReservedEventType is the event type identifier.
const BookReservedEventType = "BookReserved"

// BookReserved represents when a patron joins the reservation queue of a book.
// State is READY if a free copy was set aside right away (then ReadyExpiresAt is set), else PENDING.
type BookReserved struct {
	EventType      EventTypeString
	ReservationID  ReservationIDString
	BookID         BookIDString
	PatronID       PatronIDString
	State          ReservationState
	ReadyExpiresAt time.Time
	OccurredAt     OccurredAtTS
}

// BuildBookReserved creates a new BookReserved event.
func BuildBookReserved(
	reservationID ReservationIDString,
	bookID BookIDString,
	patronID PatronIDString,
	state ReservationState,
	readyExpiresAt time.Time,
	occurredAt time.Time,
) BookReserved {

	if !readyExpiresAt.IsZero() {
		readyExpiresAt = ToOccurredAt(readyExpiresAt)
	}

	return BookReserved{
		EventType:      BookReservedEventType,
		ReservationID:  reservationID,
		BookID:         bookID,
		PatronID:       patronID,
		State:          state,
		ReadyExpiresAt: readyExpiresAt,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReserved) IsEventType() string {
	return BookReservedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReserved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
