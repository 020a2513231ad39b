package patron_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
)

const patronID = "patron-1"

var now = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

func Test_Project_Unregistered_Patron(t *testing.T) {
	// act
	account := patron.Project(core.DomainEvents{
		core.BuildPatronRegistered("other", "Other", core.TierPremium, now),
	}, patronID)

	// assert
	assert.False(t, account.Registered)
	assert.Empty(t, account.Loans)
}

func Test_Project_Limits_From_Tier(t *testing.T) {
	// act
	account := patron.Project(core.DomainEvents{
		core.BuildPatronRegistered(patronID, "Ada", core.TierPremium, now),
	}, patronID)

	// assert
	assert.True(t, account.Registered)
	assert.Equal(t, 10, account.BorrowLimit())
	assert.Equal(t, 5, account.ReservationLimit())
}

func Test_Project_Loans_Returns_And_Fines(t *testing.T) {
	// arrange
	dueAt := now.Add(14 * 24 * time.Hour)
	history := core.DomainEvents{
		core.BuildPatronRegistered(patronID, "Ada", core.TierStandard, now),
		core.BuildBookBorrowed("b-1", patronID, "", false, dueAt, now),
		core.BuildBookBorrowed("b-2", patronID, "", false, dueAt.Add(-time.Hour), now),
		core.BuildBookReturned("b-1", patronID, dueAt, core.Cents(30), core.Cents(30), dueAt.Add(72*time.Hour)),
		core.BuildFinePaid(patronID, core.Cents(10), core.PaymentCash, "", dueAt.Add(73*time.Hour)),
	}

	// act
	account := patron.Project(history, patronID)

	// assert
	assert.False(t, account.HasBorrowed("b-1"))
	assert.True(t, account.HasBorrowed("b-2"))
	require.Len(t, account.Returned, 1)
	assert.Equal(t, core.Cents(30), account.Returned[0].LateFee)
	assert.Equal(t, core.Cents(20), account.Fines)
	assert.True(t, account.HasFines())
	require.Len(t, account.OpenLoans(), 1)
	assert.True(t, account.OpenLoans()[0].IsOverdueAt(dueAt))
}

func Test_Project_Reservations(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookReserved("r-1", "b-1", patronID, core.ReservationStatePending, time.Time{}, now),
		core.BuildBookReserved("r-2", "b-2", patronID, core.ReservationStateReady, now.Add(72*time.Hour), now),
		core.BuildBookReserved("r-3", "b-3", patronID, core.ReservationStatePending, time.Time{}, now),
		core.BuildBookReserved("r-4", "b-4", patronID, core.ReservationStatePending, time.Time{}, now),
		core.BuildBookBorrowed("b-2", patronID, "r-2", true, now.Add(14*24*time.Hour), now.Add(time.Hour)),
		core.BuildReservationCancelled("r-3", "b-3", patronID, false, now.Add(time.Hour)),
		core.BuildReservationBecameReady("r-4", "b-4", patronID, now.Add(74*time.Hour), now.Add(2*time.Hour)),
	}

	// act
	account := patron.Project(history, patronID)

	// assert
	active := account.ActiveReservations()
	require.Len(t, active, 2)
	assert.Equal(t, "r-1", active[0].ID)
	assert.Equal(t, core.ReservationStatePending, active[0].State)
	assert.Equal(t, "r-4", active[1].ID)
	assert.Equal(t, core.ReservationStateReady, active[1].State)
}
