package core

import (
	"time"
)

// BookReturnedEventType is the event type identifier.
const BookReturnedEventType = "BookReturned"

// BookReturned represents when a patron returns a borrowed copy.
// OutstandingFines is the patron's fine balance including LateFee.
type BookReturned struct {
	EventType        EventTypeString
	BookID           BookIDString
	PatronID         PatronIDString
	DueAt            time.Time
	LateFee          Money
	OutstandingFines Money
	OccurredAt       OccurredAtTS
}

// BuildBookReturned creates a new BookReturned event.
func BuildBookReturned(
	bookID BookIDString,
	patronID PatronIDString,
	dueAt time.Time,
	lateFee Money,
	outstandingFines Money,
	occurredAt time.Time,
) BookReturned {

	return BookReturned{
		EventType:        BookReturnedEventType,
		BookID:           bookID,
		PatronID:         patronID,
		DueAt:            ToOccurredAt(dueAt),
		LateFee:          lateFee,
		OutstandingFines: outstandingFines,
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReturned) IsEventType() string {
	return BookReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
