package returnbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
)

const (
	bookID   = "book-1"
	patronID = "patron-1"
	otherID  = "patron-2"
)

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func borrowedHistory(dueAt time.Time) core.DomainEvents {
	return core.DomainEvents{
		core.BuildBookAddedToCatalog(bookID, "978-0", "Dune", "Frank Herbert", 1, now.Add(-60*24*time.Hour)),
		core.BuildPatronRegistered(patronID, "Patron", core.TierStandard, now.Add(-60*24*time.Hour)),
		core.BuildBookBorrowed(bookID, patronID, "", false, dueAt, dueAt.Add(-14*24*time.Hour)),
	}
}

func Test_Decide_Return_On_Time_Has_No_Fee(t *testing.T) {
	// arrange
	history := borrowedHistory(now.Add(time.Hour))

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	returned := result.Events[0].(core.BookReturned)
	assert.Equal(t, core.Money(0), returned.LateFee)
	assert.Equal(t, core.Money(0), returned.OutstandingFines)
}

func Test_Decide_Return_Three_Days_Late_Charges_Three_Days(t *testing.T) {
	// arrange
	history := borrowedHistory(now.Add(-3 * 24 * time.Hour))

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	returned := result.Events[0].(core.BookReturned)
	assert.Equal(t, core.Cents(30), returned.LateFee)
	assert.Equal(t, core.Cents(30), returned.OutstandingFines)
}

func Test_Decide_Return_Started_Day_Counts_As_Full_Day(t *testing.T) {
	// arrange
	history := borrowedHistory(now.Add(-time.Minute))

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.Cents(10), result.Events[0].(core.BookReturned).LateFee)
}

func Test_Decide_Return_Adds_To_Existing_Fines(t *testing.T) {
	// arrange
	history := borrowedHistory(now.Add(-2 * 24 * time.Hour))
	history = append(history,
		core.BuildBookBorrowed("book-9", patronID, "", false, now.Add(-10*24*time.Hour), now.Add(-24*24*time.Hour)),
		core.BuildBookReturned("book-9", patronID, now.Add(-10*24*time.Hour), core.Cents(50), core.Cents(50), now.Add(-5*24*time.Hour)),
	)

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	assert.Equal(t, core.Cents(70), result.Events[0].(core.BookReturned).OutstandingFines)
}

func Test_Decide_Return_Promotes_Earliest_Pending_Reservation(t *testing.T) {
	// arrange
	history := borrowedHistory(now.Add(time.Hour))
	history = append(history,
		core.BuildBookReserved("r-2", bookID, "patron-3", core.ReservationStatePending, time.Time{}, now.Add(-time.Hour)),
		core.BuildBookReserved("r-1", bookID, otherID, core.ReservationStatePending, time.Time{}, now.Add(-2*time.Hour)),
	)

	// act
	result := returnbook.Decide(history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	promoted := result.Events[1].(core.ReservationBecameReady)
	assert.Equal(t, "r-1", promoted.ReservationID)
	assert.Equal(t, otherID, promoted.PatronID)
	assert.Equal(t, now.Add(3*24*time.Hour), promoted.ReadyExpiresAt)
}

func Test_Decide_Return_Without_Loan_Is_NotBorrowed(t *testing.T) {
	testCases := []struct {
		description string
		history     core.DomainEvents
	}{
		{description: "empty history", history: core.DomainEvents{}},
		{
			description: "book borrowed by someone else",
			history: core.DomainEvents{
				core.BuildBookBorrowed(bookID, otherID, "", false, now.Add(time.Hour), now.Add(-time.Hour)),
			},
		},
		{
			description: "already returned",
			history: append(borrowedHistory(now.Add(time.Hour)),
				core.BuildBookReturned(bookID, patronID, now.Add(time.Hour), 0, 0, now.Add(-time.Minute)),
			),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := returnbook.Decide(tc.history, returnbook.BuildCommand(patronID, bookID, now), core.DefaultPolicy())

			// assert
			assert.ErrorIs(t, result.HasError(), core.ErrNotBorrowed)
		})
	}
}
