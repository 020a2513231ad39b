package readyreservations

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

// Project implements the query logic of listing READY reservations.
//
// Query Logic:
//
//	GIVEN: all reservation events and all borrows
//	WHEN: ReadyReservations query is executed
//	THEN: the READY reservations of all books, earliest ReadyExpiresAt first
//	EXCLUDES: holds still running at ExpiredBefore, if it is set
func Project(history core.DomainEvents, query Query, maxSequence uint) ReadyReservations {
	queues := make(map[core.BookIDString]*queue.Queue)

	for _, event := range history {
		bookID, ok := bookOf(event)
		if !ok {
			continue
		}

		q, exists := queues[bookID]
		if !exists {
			q = queue.New(bookID)
			queues[bookID] = q
		}

		q.Apply(event)
	}

	ready := make([]queue.Reservation, 0)

	for _, q := range queues {
		r, ok := q.Ready()
		if !ok {
			continue
		}

		if !query.ExpiredBefore.IsZero() && !r.IsExpiredAt(query.ExpiredBefore) {
			continue
		}

		ready = append(ready, r)
	}

	slices.SortFunc(ready, func(a, b queue.Reservation) int {
		if c := a.ReadyExpiresAt.Compare(b.ReadyExpiresAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return ReadyReservations{
		Reservations:   ready,
		Count:          len(ready),
		SequenceNumber: maxSequence,
	}
}

func bookOf(event core.DomainEvent) (core.BookIDString, bool) {
	switch e := event.(type) {
	case core.BookReserved:
		return e.BookID, true
	case core.ReservationBecameReady:
		return e.BookID, true
	case core.ReservationCancelled:
		return e.BookID, true
	case core.ReservationExpired:
		return e.BookID, true
	case core.BookBorrowed:
		return e.BookID, e.ReservationID != ""
	default:
		return "", false
	}
}

// BuildEventFilter selects every event that can change a reservation's state.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookReservedEventType,
			core.ReservationBecameReadyEventType,
			core.ReservationCancelledEventType,
			core.ReservationExpiredEventType,
			core.BookBorrowedEventType,
		).
		Finalize()
}
