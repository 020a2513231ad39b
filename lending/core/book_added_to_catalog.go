package core

import (
	"time"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when copies of a book are added to the catalog.
// The first event for a BookID creates the book, later ones add copies.
type BookAddedToCatalog struct {
	EventType  EventTypeString
	BookID     BookIDString
	ISBN       ISBNString
	Title      string
	Author     string
	Copies     int
	OccurredAt OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(
	bookID BookIDString,
	isbn ISBNString,
	title string,
	author string,
	copies int,
	occurredAt time.Time,
) BookAddedToCatalog {

	return BookAddedToCatalog{
		EventType:  BookAddedToCatalogEventType,
		BookID:     bookID,
		ISBN:       isbn,
		Title:      title,
		Author:     author,
		Copies:     copies,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
