package addbookcopies

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Decide implements the business logic of adding copies of a book.
//
// Business Rules:
//
//	GIVEN: a BookID, known or not
//	WHEN: AddBookCopies command is received
//	THEN: BookAddedToCatalog, followed by ReservationBecameReady if a reservation was waiting
//	ERROR: InvalidInput if the BookID is empty or Copies is not positive
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if command.BookID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: book id is empty", core.ErrInvalidInput))
	}

	if command.Copies <= 0 {
		return core.ErrorDecision(fmt.Errorf("%w: copies must be positive, got %d", core.ErrInvalidInput, command.Copies))
	}

	added := core.BuildBookAddedToCatalog(command.BookID, command.ISBN, command.Title, command.Author, command.Copies, command.OccurredAt)

	book := catalog.Project(history, command.BookID)
	reservations := queue.Project(history, command.BookID)
	book.Apply(added)

	if promoted, ok := reservations.Promote(command.OccurredAt, policy.HoldWindow, book.AvailableCopies()); ok {
		return core.SuccessDecision(added, promoted)
	}

	return core.SuccessDecision(added)
}

// BuildEventFilter creates the consistency boundary of adding copies: all events of the book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
