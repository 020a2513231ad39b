package loansduesoon

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

// DueLoan is an open loan that falls due soon.
type DueLoan struct {
	PatronID core.PatronIDString
	BookID   core.BookIDString
	DueAt    time.Time
}

// LoansDueSoon represents the query result, earliest due date first.
type LoansDueSoon struct {
	Loans []DueLoan
	Count int
}
