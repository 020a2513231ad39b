package cancelreservation

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Decide implements the business logic of cancelling a reservation.
//
// Business Rules:
//
//	GIVEN: a reservation with ReservationID
//	WHEN: CancelReservation command is received
//	THEN: ReservationCancelled, followed by ReservationBecameReady if a READY hold was released to the queue
//	ERROR: NotFound if there is no such reservation
//	ERROR: NotOwned if the reservation belongs to another patron
//	ERROR: InvalidState if the reservation is FULFILLED, EXPIRED, or CANCELLED
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	bookID, found := BookOf(history, command.ReservationID, command.PatronID)
	if !found {
		return core.ErrorDecision(fmt.Errorf("%w: reservation %s", core.ErrNotFound, command.ReservationID))
	}

	reservations := queue.Project(history, bookID)
	reservation, _ := reservations.Find(command.ReservationID)

	if reservation.PatronID != command.PatronID {
		return core.ErrorDecision(fmt.Errorf("%w: reservation %s", core.ErrNotOwned, command.ReservationID))
	}

	if !reservation.IsActive() {
		return core.ErrorDecision(fmt.Errorf(
			"%w: reservation %s is %s", core.ErrInvalidState, command.ReservationID, reservation.State,
		))
	}

	wasReady := reservation.State == core.ReservationStateReady
	cancelled := core.BuildReservationCancelled(reservation.ID, bookID, reservation.PatronID, wasReady, command.OccurredAt)

	if !wasReady {
		return core.SuccessDecision(cancelled)
	}

	book := catalog.Project(history, bookID)
	book.Apply(cancelled)
	reservations.Apply(cancelled)

	if promoted, ok := reservations.Promote(command.OccurredAt, policy.HoldWindow, book.AvailableCopies()); ok {
		return core.SuccessDecision(cancelled, promoted)
	}

	return core.SuccessDecision(cancelled)
}

// BookOf finds the book of a reservation in the history. A reservation of the given patron wins over
// one of another patron with the same id.
func BookOf(
	history core.DomainEvents,
	reservationID core.ReservationIDString,
	patronID core.PatronIDString,
) (core.BookIDString, bool) {
	var bookID core.BookIDString
	found := false

	for _, event := range history {
		reserved, ok := event.(core.BookReserved)
		if !ok || reserved.ReservationID != reservationID {
			continue
		}

		if reserved.PatronID == patronID {
			return reserved.BookID, true
		}

		if !found {
			bookID, found = reserved.BookID, true
		}
	}

	return bookID, found
}

// BuildLocateFilter selects the event that created the reservation.
func BuildLocateFilter(reservationID core.ReservationIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookReservedEventType).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID)).
		Finalize()
}

// BuildEventFilter creates the consistency boundary of a cancellation: all events of the book or the patron.
func BuildEventFilter(bookID core.BookIDString, patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
		).
		Finalize()
}
