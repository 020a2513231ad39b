package patronaccount

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
)

// Project implements the query logic of a patron's account.
//
// Query Logic:
//
//	GIVEN: all events of the patron
//	WHEN: PatronAccount query is executed
//	THEN: the account with open loans ordered by due date and active reservations in the order they were made
//	ERROR: NotFound if the patron is not registered
func Project(history core.DomainEvents, query Query, maxSequence uint) (PatronAccount, error) {
	account := patron.Project(history, query.PatronID)
	if !account.Registered {
		return PatronAccount{}, fmt.Errorf("%w: patron %s", core.ErrNotFound, query.PatronID)
	}

	loans := make([]Loan, 0, len(account.Loans))
	for _, record := range account.OpenLoans() {
		loans = append(loans, Loan{
			BookID:     record.BookID,
			BorrowedAt: record.BorrowedAt,
			DueAt:      record.DueAt,
			Overdue:    record.IsOverdueAt(query.AsOf),
		})
	}

	return PatronAccount{
		PatronID:         account.ID,
		Name:             account.Name,
		Tier:             account.Tier,
		BorrowLimit:      account.BorrowLimit(),
		ReservationLimit: account.ReservationLimit(),
		Fines:            account.Fines,
		BorrowingBlocked: account.HasFines(),
		Loans:            loans,
		Returned:         account.Returned,
		Reservations:     account.ActiveReservations(),
		SequenceNumber:   maxSequence,
	}, nil
}

// BuildEventFilter selects all events of the patron.
func BuildEventFilter(patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("PatronID", patronID)).
		Finalize()
}
