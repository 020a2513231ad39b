package expirereservation

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Decide implements the business logic of expiring a READY reservation.
//
// Business Rules:
//
//	GIVEN: a READY reservation whose ReadyExpiresAt lies before OccurredAt
//	WHEN: ExpireReservation command is received
//	THEN: ReservationExpired, followed by ReservationBecameReady for the next patron in the queue
//	IDEMPOTENT: if the reservation is not READY anymore or its hold has not run out yet
//	ERROR: NotFound if the book has no such reservation
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	reservations := queue.Project(history, command.BookID)

	reservation, ok := reservations.Find(command.ReservationID)
	if !ok {
		return core.ErrorDecision(fmt.Errorf("%w: reservation %s of book %s", core.ErrNotFound, command.ReservationID, command.BookID))
	}

	if !reservation.IsExpiredAt(command.OccurredAt) {
		return core.IdempotentDecision()
	}

	expired := core.BuildReservationExpired(reservation.ID, reservation.BookID, reservation.PatronID, command.OccurredAt)

	book := catalog.Project(history, command.BookID)
	book.Apply(expired)
	reservations.Apply(expired)

	if promoted, ok := reservations.Promote(command.OccurredAt, policy.HoldWindow, book.AvailableCopies()); ok {
		return core.SuccessDecision(expired, promoted)
	}

	return core.SuccessDecision(expired)
}

// BuildEventFilter creates the consistency boundary of an expiry: all events of the book or the patron.
func BuildEventFilter(bookID core.BookIDString, patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(
			eventstore.P("BookID", bookID),
			eventstore.P("PatronID", patronID),
		).
		Finalize()
}
