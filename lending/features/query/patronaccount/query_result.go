package patronaccount

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
)

// Loan is an open loan as seen at the query's AsOf time.
type Loan struct {
	BookID     core.BookIDString
	BorrowedAt time.Time
	DueAt      time.Time
	Overdue    bool
}

// PatronAccount represents the query result for one patron.
type PatronAccount struct {
	PatronID         core.PatronIDString
	Name             string
	Tier             core.MembershipTier
	BorrowLimit      int
	ReservationLimit int
	Fines            core.Money
	BorrowingBlocked bool
	Loans            []Loan
	Returned         []patron.BorrowRecord
	Reservations     []patron.ReservationRef
	SequenceNumber   uint
}
