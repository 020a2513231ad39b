package patron

import (
	"slices"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// BorrowRecord is one loan of a patron. ReturnedAt stays zero until the copy is returned.
type BorrowRecord struct {
	BookID     core.BookIDString
	BorrowedAt time.Time
	DueAt      time.Time
	ReturnedAt time.Time
	LateFee    core.Money
}

// IsOverdueAt reports whether an open loan is past its due date.
func (r BorrowRecord) IsOverdueAt(now time.Time) bool {
	return r.ReturnedAt.IsZero() && now.After(r.DueAt)
}

// ReservationRef is the patron's view of one of their reservations.
type ReservationRef struct {
	ID       core.ReservationIDString
	BookID   core.BookIDString
	State    core.ReservationState
	QueuedAt time.Time
}

// Account is the projected state of one patron.
type Account struct {
	ID           core.PatronIDString
	Name         string
	Tier         core.MembershipTier
	Registered   bool
	Fines        core.Money
	Loans        map[core.BookIDString]BorrowRecord
	Returned     []BorrowRecord
	Reservations []ReservationRef
}

// Project replays the patron relevant events of one patron.
func Project(history core.DomainEvents, patronID core.PatronIDString) Account {
	account := Account{
		ID:    patronID,
		Loans: make(map[core.BookIDString]BorrowRecord),
	}

	for _, event := range history {
		account.Apply(event)
	}

	return account
}

// Apply folds one event into the account. Events of other patrons are ignored.
func (a *Account) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.PatronRegistered:
		if e.PatronID == a.ID && !a.Registered {
			a.Registered = true
			a.Name = e.Name
			a.Tier = e.MembershipTier
		}

	case core.BookBorrowed:
		if e.PatronID != a.ID {
			return
		}

		a.Loans[e.BookID] = BorrowRecord{BookID: e.BookID, BorrowedAt: e.OccurredAt, DueAt: e.DueAt}

		if e.ReservationID != "" {
			a.setReservationState(e.ReservationID, core.ReservationStateFulfilled)
		}

	case core.BookReturned:
		if e.PatronID != a.ID {
			return
		}

		record, ok := a.Loans[e.BookID]
		if !ok {
			return
		}

		record.ReturnedAt = e.OccurredAt
		record.LateFee = e.LateFee
		delete(a.Loans, e.BookID)
		a.Returned = append(a.Returned, record)
		a.Fines += e.LateFee

	case core.FinePaid:
		if e.PatronID == a.ID {
			a.Fines -= e.Amount
		}

	case core.BookReserved:
		if e.PatronID == a.ID && a.reservationIndex(e.ReservationID) < 0 {
			a.Reservations = append(a.Reservations, ReservationRef{
				ID:       e.ReservationID,
				BookID:   e.BookID,
				State:    e.State,
				QueuedAt: e.OccurredAt,
			})
		}

	case core.ReservationBecameReady:
		if e.PatronID == a.ID {
			a.setReservationState(e.ReservationID, core.ReservationStateReady)
		}

	case core.ReservationCancelled:
		if e.PatronID == a.ID {
			a.setReservationState(e.ReservationID, core.ReservationStateCancelled)
		}

	case core.ReservationExpired:
		if e.PatronID == a.ID {
			a.setReservationState(e.ReservationID, core.ReservationStateExpired)
		}
	}
}

func (a *Account) setReservationState(reservationID core.ReservationIDString, state core.ReservationState) {
	if i := a.reservationIndex(reservationID); i >= 0 {
		a.Reservations[i].State = state
	}
}

func (a *Account) reservationIndex(reservationID core.ReservationIDString) int {
	return slices.IndexFunc(a.Reservations, func(r ReservationRef) bool { return r.ID == reservationID })
}

// BorrowLimit is the maximum number of concurrent loans of the patron's tier.
func (a Account) BorrowLimit() int {
	return core.BorrowLimit(a.Tier)
}

// ReservationLimit is the maximum number of active reservations of the patron's tier.
func (a Account) ReservationLimit() int {
	return core.ReservationLimit(a.Tier)
}

// HasBorrowed reports whether the patron currently holds a copy of the book.
func (a Account) HasBorrowed(bookID core.BookIDString) bool {
	_, ok := a.Loans[bookID]

	return ok
}

// Loan returns the open loan of the book.
func (a Account) Loan(bookID core.BookIDString) (BorrowRecord, bool) {
	record, ok := a.Loans[bookID]

	return record, ok
}

// OpenLoans returns the open loans ordered by due date.
func (a Account) OpenLoans() []BorrowRecord {
	loans := make([]BorrowRecord, 0, len(a.Loans))
	for _, record := range a.Loans {
		loans = append(loans, record)
	}

	slices.SortFunc(loans, func(x, y BorrowRecord) int {
		if c := x.DueAt.Compare(y.DueAt); c != 0 {
			return c
		}

		if x.BookID < y.BookID {
			return -1
		}

		return 1
	})

	return loans
}

// ActiveReservations returns the PENDING and READY reservations in the order they were made.
func (a Account) ActiveReservations() []ReservationRef {
	active := make([]ReservationRef, 0)

	for _, r := range a.Reservations {
		if !core.IsTerminalReservationState(r.State) {
			active = append(active, r)
		}
	}

	return active
}

// HasFines reports whether fines are outstanding, which blocks new borrowing.
func (a Account) HasFines() bool {
	return a.Fines.IsPositive()
}
