package returnbook

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Decide implements the business logic of returning a book.
//
// Business Rules:
//
//	GIVEN: a patron with an open loan of the book
//	WHEN: ReturnBook command is received
//	THEN: BookReturned with the late fee, followed by ReservationBecameReady if a reservation was waiting
//	ERROR: NotBorrowed if the patron holds no copy of the book
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	account := patron.Project(history, command.PatronID)

	loan, ok := account.Loan(command.BookID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s holds no copy of book %s", core.ErrNotBorrowed, command.PatronID, command.BookID))
	}

	lateFee := core.LateFee(loan.DueAt, command.OccurredAt, policy.FeePerDay)
	returned := core.BuildBookReturned(command.BookID, command.PatronID, loan.DueAt, lateFee, account.Fines+lateFee, command.OccurredAt)

	book := catalog.Project(history, command.BookID)
	reservations := queue.Project(history, command.BookID)
	book.Apply(returned)

	if promoted, ok := reservations.Promote(command.OccurredAt, policy.HoldWindow, book.AvailableCopies()); ok {
		return core.SuccessDecision(returned, promoted)
	}

	return core.SuccessDecision(returned)
}

// BuildEventFilter creates the consistency boundary of a return: all events of the book or the patron.
func BuildEventFilter(bookID core.BookIDString, patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
		).
		Finalize()
}
