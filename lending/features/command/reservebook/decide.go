package reservebook

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Decide implements the business logic of reserving a book.
//
// Business Rules:
//
//	GIVEN: a book with BookID and a patron with PatronID
//	WHEN: Reserve command is received
//	THEN: BookReserved, READY if a copy is free and the queue is empty, else PENDING
//	IDEMPOTENT: if the patron already made the still active reservation with this ReservationID
//	ERROR: InvalidInput if the ReservationID is empty or was used by another patron or for another book
//	ERROR: InvalidState if the reservation with this ReservationID is FULFILLED, EXPIRED, or CANCELLED
//	ERROR: NotFound if the book is not in the catalog or the patron is not registered
//	ERROR: AlreadyReserved if the patron has an active reservation for the book
//	ERROR: AlreadyBorrowed if the patron currently holds the book
//	ERROR: ReservationLimitExceeded if the patron reached the reservation limit of the membership tier
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	if command.ReservationID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: reservation id is empty", core.ErrInvalidInput))
	}

	if reserved, found := reservedWithID(history, command.ReservationID); found {
		if reserved.PatronID != command.PatronID || reserved.BookID != command.BookID {
			return core.ErrorDecision(fmt.Errorf(
				"%w: reservation %s is already taken", core.ErrInvalidInput, command.ReservationID,
			))
		}

		existing, _ := queue.Project(history, command.BookID).Find(command.ReservationID)
		if !existing.IsActive() {
			return core.ErrorDecision(fmt.Errorf(
				"%w: reservation %s is %s", core.ErrInvalidState, command.ReservationID, existing.State,
			))
		}

		return core.IdempotentDecision()
	}

	account := patron.Project(history, command.PatronID)

	book := catalog.Project(history, command.BookID)
	if !book.Exists {
		return core.ErrorDecision(fmt.Errorf("%w: book %s", core.ErrNotFound, command.BookID))
	}

	if !account.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s", core.ErrNotFound, command.PatronID))
	}

	reservations := queue.Project(history, command.BookID)

	if existing, ok := reservations.ActiveFor(command.PatronID); ok {
		return core.ErrorDecision(fmt.Errorf(
			"%w: patron %s has reservation %s for book %s", core.ErrAlreadyReserved, command.PatronID, existing.ID, command.BookID,
		))
	}

	if account.HasBorrowed(command.BookID) {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s holds book %s", core.ErrAlreadyBorrowed, command.PatronID, command.BookID))
	}

	if active := len(account.ActiveReservations()); active >= account.ReservationLimit() {
		return core.ErrorDecision(fmt.Errorf(
			"%w: patron %s has %d of %d reservations", core.ErrReservationLimitExceeded, command.PatronID, active, account.ReservationLimit(),
		))
	}

	if book.AvailableCopies() > 0 && !reservations.HasActive() {
		return core.SuccessDecision(core.BuildBookReserved(
			command.ReservationID, command.BookID, command.PatronID,
			core.ReservationStateReady, command.OccurredAt.Add(policy.HoldWindow), command.OccurredAt,
		))
	}

	return core.SuccessDecision(core.BuildBookReserved(
		command.ReservationID, command.BookID, command.PatronID,
		core.ReservationStatePending, time.Time{}, command.OccurredAt,
	))
}

func reservedWithID(history core.DomainEvents, reservationID core.ReservationIDString) (core.BookReserved, bool) {
	for _, event := range history {
		if reserved, ok := event.(core.BookReserved); ok && reserved.ReservationID == reservationID {
			return reserved, true
		}
	}

	return core.BookReserved{}, false
}

// BuildEventFilter creates the consistency boundary of a reservation: all events of the book, the patron,
// or any earlier use of the reservation id.
func BuildEventFilter(
	bookID core.BookIDString,
	patronID core.PatronIDString,
	reservationID core.ReservationIDString,
) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
			eventstore.P("ReservationID", reservationID),
		).
		Finalize()
}
