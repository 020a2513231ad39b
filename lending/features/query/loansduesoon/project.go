package loansduesoon

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

type loanKey struct {
	patronID core.PatronIDString
	bookID   core.BookIDString
}

// Project implements the query logic of listing loans that fall due soon.
//
// Query Logic:
//
//	GIVEN: all borrows and returns
//	WHEN: LoansDueSoon query is executed
//	THEN: the open loans with AsOf <= DueAt <= AsOf+Window
//	EXCLUDES: overdue loans and loans due later
func Project(history core.DomainEvents, query Query) LoansDueSoon {
	open := make(map[loanKey]DueLoan)

	for _, event := range history {
		switch e := event.(type) {
		case core.BookBorrowed:
			open[loanKey{e.PatronID, e.BookID}] = DueLoan{PatronID: e.PatronID, BookID: e.BookID, DueAt: e.DueAt}
		case core.BookReturned:
			delete(open, loanKey{e.PatronID, e.BookID})
		}
	}

	until := query.AsOf.Add(query.Window)
	loans := make([]DueLoan, 0)

	for _, loan := range open {
		if loan.DueAt.Before(query.AsOf) || loan.DueAt.After(until) {
			continue
		}

		loans = append(loans, loan)
	}

	slices.SortFunc(loans, func(a, b DueLoan) int {
		if c := a.DueAt.Compare(b.DueAt); c != 0 {
			return c
		}

		if c := strings.Compare(a.PatronID, b.PatronID); c != 0 {
			return c
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return LoansDueSoon{Loans: loans, Count: len(loans)}
}

// BuildEventFilter selects all borrows and returns.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookBorrowedEventType, core.BookReturnedEventType).
		Finalize()
}
