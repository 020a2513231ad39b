package queue

import (
	"slices"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// Reservation is the projected state of one reservation.
type Reservation struct {
	ID             core.ReservationIDString
	BookID         core.BookIDString
	PatronID       core.PatronIDString
	State          core.ReservationState
	QueuedAt       time.Time
	ReadyAt        time.Time
	ReadyExpiresAt time.Time
}

// IsActive reports whether the reservation is PENDING or READY.
func (r Reservation) IsActive() bool {
	return !core.IsTerminalReservationState(r.State)
}

// IsExpiredAt reports whether the reservation is READY and its hold ran out before now.
func (r Reservation) IsExpiredAt(now time.Time) bool {
	return r.State == core.ReservationStateReady && r.ReadyExpiresAt.Before(now)
}

// Queue holds all reservations of one book in the order they were queued.
type Queue struct {
	bookID       core.BookIDString
	reservations []Reservation
}

// New creates an empty queue for the book.
func New(bookID core.BookIDString) *Queue {
	return &Queue{bookID: bookID}
}

// Project replays the reservation events of one book.
func Project(history core.DomainEvents, bookID core.BookIDString) *Queue {
	q := New(bookID)

	for _, event := range history {
		q.Apply(event)
	}

	return q
}

// Apply folds one event into the queue. Events of other books are ignored.
func (q *Queue) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.BookReserved:
		if e.BookID != q.bookID || q.indexOf(e.ReservationID) >= 0 {
			return
		}

		reservation := Reservation{
			ID:             e.ReservationID,
			BookID:         e.BookID,
			PatronID:       e.PatronID,
			State:          e.State,
			QueuedAt:       e.OccurredAt,
			ReadyExpiresAt: e.ReadyExpiresAt,
		}

		if e.State == core.ReservationStateReady {
			reservation.ReadyAt = e.OccurredAt
		}

		q.reservations = append(q.reservations, reservation)

	case core.ReservationBecameReady:
		q.update(e.BookID, e.ReservationID, func(r *Reservation) {
			r.State = core.ReservationStateReady
			r.ReadyAt = e.OccurredAt
			r.ReadyExpiresAt = e.ReadyExpiresAt
		})

	case core.ReservationCancelled:
		q.update(e.BookID, e.ReservationID, func(r *Reservation) { r.State = core.ReservationStateCancelled })

	case core.ReservationExpired:
		q.update(e.BookID, e.ReservationID, func(r *Reservation) { r.State = core.ReservationStateExpired })

	case core.BookBorrowed:
		if e.ReservationID != "" {
			q.update(e.BookID, e.ReservationID, func(r *Reservation) { r.State = core.ReservationStateFulfilled })
		}
	}
}

func (q *Queue) update(bookID core.BookIDString, reservationID core.ReservationIDString, mutate func(r *Reservation)) {
	if bookID != q.bookID {
		return
	}

	if i := q.indexOf(reservationID); i >= 0 {
		mutate(&q.reservations[i])
	}
}

func (q *Queue) indexOf(reservationID core.ReservationIDString) int {
	return slices.IndexFunc(q.reservations, func(r Reservation) bool { return r.ID == reservationID })
}

// BookID returns the book this queue belongs to.
func (q *Queue) BookID() core.BookIDString {
	return q.bookID
}

// All returns every reservation of the book, terminal ones included, in queued order.
func (q *Queue) All() []Reservation {
	return slices.Clone(q.reservations)
}

// Find returns the reservation with the given id.
func (q *Queue) Find(reservationID core.ReservationIDString) (Reservation, bool) {
	if i := q.indexOf(reservationID); i >= 0 {
		return q.reservations[i], true
	}

	return Reservation{}, false
}

// Ready returns the READY reservation of the book, if there is one.
func (q *Queue) Ready() (Reservation, bool) {
	for _, r := range q.reservations {
		if r.State == core.ReservationStateReady {
			return r, true
		}
	}

	return Reservation{}, false
}

// Pending returns the PENDING reservations in promotion order:
// earliest QueuedAt first, the lower reservation id on equal QueuedAt.
func (q *Queue) Pending() []Reservation {
	pending := make([]Reservation, 0)

	for _, r := range q.reservations {
		if r.State == core.ReservationStatePending {
			pending = append(pending, r)
		}
	}

	slices.SortStableFunc(pending, func(a, b Reservation) int {
		if c := a.QueuedAt.Compare(b.QueuedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return pending
}

// ActiveFor returns the patron's PENDING or READY reservation for this book.
func (q *Queue) ActiveFor(patronID core.PatronIDString) (Reservation, bool) {
	for _, r := range q.reservations {
		if r.PatronID == patronID && r.IsActive() {
			return r, true
		}
	}

	return Reservation{}, false
}

// HasActive reports whether any reservation of the book is PENDING or READY.
func (q *Queue) HasActive() bool {
	return q.ActiveCount() > 0
}

// ActiveCount counts the PENDING and READY reservations of the book.
func (q *Queue) ActiveCount() int {
	count := 0

	for _, r := range q.reservations {
		if r.IsActive() {
			count++
		}
	}

	return count
}

// Promote hands a free copy to the earliest PENDING reservation.
//
// It is a no-op if a reservation is already READY or if no copy is free. Otherwise it returns the
// ReservationBecameReady event, which the caller appends in the same atomic unit as the transition
// that freed the copy, and applies it to the queue.
func (q *Queue) Promote(now time.Time, holdWindow time.Duration, availableCopies int) (core.ReservationBecameReady, bool) {
	if availableCopies <= 0 {
		return core.ReservationBecameReady{}, false
	}

	if _, hasReady := q.Ready(); hasReady {
		return core.ReservationBecameReady{}, false
	}

	pending := q.Pending()
	if len(pending) == 0 {
		return core.ReservationBecameReady{}, false
	}

	next := pending[0]
	event := core.BuildReservationBecameReady(next.ID, next.BookID, next.PatronID, now.Add(holdWindow), now)
	q.Apply(event)

	return event, true
}
