package core

import (
	"time"
)

// BookBorrowedEventType is the event type identifier.
const BookBorrowedEventType = "BookBorrowed"

// BookBorrowed represents when a patron borrows a copy of a book.
//
// FromHold is true if the copy was the one set aside for the patron's READY reservation,
// otherwise it was taken from general availability. ReservationID is set if the borrow
// fulfilled a reservation of the patron, READY or PENDING.
type BookBorrowed struct {
	EventType     EventTypeString
	BookID        BookIDString
	PatronID      PatronIDString
	ReservationID ReservationIDString `json:",omitempty"`
	FromHold      bool
	DueAt         time.Time
	OccurredAt    OccurredAtTS
}

// BuildBookBorrowed creates a new BookBorrowed event.
func BuildBookBorrowed(
	bookID BookIDString,
	patronID PatronIDString,
	reservationID ReservationIDString,
	fromHold bool,
	dueAt time.Time,
	occurredAt time.Time,
) BookBorrowed {

	return BookBorrowed{
		EventType:     BookBorrowedEventType,
		BookID:        bookID,
		PatronID:      patronID,
		ReservationID: reservationID,
		FromHold:      fromHold,
		DueAt:         ToOccurredAt(dueAt),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookBorrowed) IsEventType() string {
	return BookBorrowedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
