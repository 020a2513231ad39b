package bookavailability

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Project implements the query logic of the availability of one book.
//
// Query Logic:
//
//	GIVEN: all events of the book
//	WHEN: BookAvailability query is executed
//	THEN: copies, derived status, and queue state of the book
//	ERROR: NotFound if the book is not in the catalog
func Project(history core.DomainEvents, query Query, maxSequence uint) (BookAvailability, error) {
	book := catalog.Project(history, query.BookID)
	if !book.Exists {
		return BookAvailability{}, fmt.Errorf("%w: book %s", core.ErrNotFound, query.BookID)
	}

	reservations := queue.Project(history, query.BookID)

	result := BookAvailability{
		BookID:          book.ID,
		ISBN:            book.ISBN,
		Title:           book.Title,
		Author:          book.Author,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies(),
		Status:          book.Status(reservations),
		QueueLength:     reservations.ActiveCount(),
		SequenceNumber:  maxSequence,
	}

	if ready, ok := reservations.Ready(); ok {
		result.ReadyReservation = &ReadyHold{
			ReservationID:  ready.ID,
			PatronID:       ready.PatronID,
			ReadyExpiresAt: ready.ReadyExpiresAt,
		}
	}

	return result, nil
}

// BuildEventFilter selects all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
