package borrowbook

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

type state struct {
	book    catalog.Book
	queue   *queue.Queue
	account patron.Account
}

// Decide implements the business logic of borrowing a book.
//
// Business Rules:
//
//	GIVEN: a book with BookID and a patron with PatronID
//	WHEN: Borrow command is received
//	THEN: BookBorrowed, followed by ReservationBecameReady if claiming a hold left a copy for the queue
//	ERROR: InvalidInput if DurationDays exceeds MaxLoanDays
//	ERROR: NotFound if the book is not in the catalog or the patron is not registered
//	ERROR: FinesOutstanding if the patron owes fines
//	ERROR: AlreadyBorrowed if the patron currently holds this book
//	ERROR: LimitExceeded if the patron reached the borrow limit of the membership tier
//	ERROR: Unavailable if no copy is free and the patron has no READY reservation for the book
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if command.DurationDays > core.MaxLoanDays {
		return core.ErrorDecision(fmt.Errorf(
			"%w: loan of %d days exceeds %d days", core.ErrInvalidInput, command.DurationDays, core.MaxLoanDays,
		))
	}

	s := project(history, command.BookID, command.PatronID)

	if !s.book.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: book %s", core.ErrNotFound, command.BookID))
	}

	if !s.account.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s", core.ErrNotFound, command.PatronID))
	}

	if s.account.HasFines() {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s owes %s", core.ErrFinesOutstanding, command.PatronID, s.account.Fines))
	}

	if s.account.HasBorrowed(command.BookID) {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s holds book %s", core.ErrAlreadyBorrowed, command.PatronID, command.BookID))
	}

	if len(s.account.Loans) >= s.account.BorrowLimit() {
		return core.ErrorDecision(fmt.Errorf(
			"%w: patron %s has %d of %d loans", core.ErrLimitExceeded, command.PatronID, len(s.account.Loans), s.account.BorrowLimit(),
		))
	}

	dueAt := command.OccurredAt.Add(policy.LoanDurationFor(command.DurationDays))
	own, hasOwn := s.queue.ActiveFor(command.PatronID)

	if hasOwn && own.State == core.ReservationStateReady {
		borrowed := core.BuildBookBorrowed(command.BookID, command.PatronID, own.ID, true, dueAt, command.OccurredAt)
		s.book.Apply(borrowed)
		s.queue.Apply(borrowed)

		if promoted, ok := s.queue.Promote(command.OccurredAt, policy.HoldWindow, s.book.AvailableCopies()); ok {
			return core.SuccessDecision(borrowed, promoted)
		}

		return core.SuccessDecision(borrowed)
	}

	if s.book.AvailableCopies() <= 0 {
		return core.ErrorDecision(fmt.Errorf("%w: book %s has no free copy", core.ErrUnavailable, command.BookID))
	}

	reservationID := ""
	if hasOwn {
		reservationID = own.ID
	}

	return core.SuccessDecision(core.BuildBookBorrowed(command.BookID, command.PatronID, reservationID, false, dueAt, command.OccurredAt))
}

func project(history core.DomainEvents, bookID core.BookIDString, patronID core.PatronIDString) state {
	return state{
		book:    catalog.Project(history, bookID),
		queue:   queue.Project(history, bookID),
		account: patron.Project(history, patronID),
	}
}

// BuildEventFilter creates the consistency boundary of a borrow: all events of the book or the patron.
func BuildEventFilter(bookID core.BookIDString, patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
		).
		Finalize()
}
