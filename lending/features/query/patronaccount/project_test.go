package patronaccount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/patronaccount"
)

const patronID = "patron-1"

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func Test_Project_PatronAccount(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildPatronRegistered(patronID, "Ada", core.TierPremium, now.Add(-30*24*time.Hour)),
		core.BuildBookBorrowed("book-2", patronID, "", false, now.Add(5*24*time.Hour), now.Add(-9*24*time.Hour)),
		core.BuildBookBorrowed("book-1", patronID, "", false, now.Add(-24*time.Hour), now.Add(-15*24*time.Hour)),
		core.BuildBookBorrowed("book-3", patronID, "", false, now.Add(-10*24*time.Hour), now.Add(-24*24*time.Hour)),
		core.BuildBookReturned("book-3", patronID, now.Add(-10*24*time.Hour), core.Cents(20), core.Cents(20), now.Add(-8*24*time.Hour)),
		core.BuildBookReserved("r-1", "book-4", patronID, core.ReservationStatePending, time.Time{}, now.Add(-time.Hour)),
		core.BuildBookReserved("r-2", "book-5", patronID, core.ReservationStatePending, time.Time{}, now.Add(-time.Hour)),
		core.BuildReservationCancelled("r-2", "book-5", patronID, false, now),
	}

	// act
	result, err := patronaccount.Project(history, patronaccount.BuildQuery(patronID, now), 8)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 10, result.BorrowLimit)
	assert.Equal(t, 5, result.ReservationLimit)
	assert.Equal(t, core.Cents(20), result.Fines)
	assert.True(t, result.BorrowingBlocked)
	require.Len(t, result.Loans, 2)
	assert.Equal(t, "book-1", result.Loans[0].BookID)
	assert.True(t, result.Loans[0].Overdue)
	assert.False(t, result.Loans[1].Overdue)
	require.Len(t, result.Returned, 1)
	assert.Equal(t, core.Cents(20), result.Returned[0].LateFee)
	require.Len(t, result.Reservations, 1)
	assert.Equal(t, "r-1", result.Reservations[0].ID)
}

func Test_Project_PatronAccount_Unknown_Patron(t *testing.T) {
	// act
	_, err := patronaccount.Project(nil, patronaccount.BuildQuery(patronID, now), 0)

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}
