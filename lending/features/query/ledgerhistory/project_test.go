package ledgerhistory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/ledgerhistory"
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

const patronID = "patron-1"

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func sequencedHistory() []shell.SequencedEvent {
	return []shell.SequencedEvent{
		{Sequence: 1, Event: core.BuildPatronRegistered(patronID, "Ada", core.TierStandard, now.Add(-10*24*time.Hour))},
		{Sequence: 2, Event: core.BuildBookBorrowed("book-1", patronID, "", false, now.Add(-2*24*time.Hour), now.Add(-9*24*time.Hour))},
		{Sequence: 3, Event: core.BuildBookReserved("r-1", "book-2", patronID, core.ReservationStatePending, time.Time{}, now.Add(-8*24*time.Hour))},
		{Sequence: 4, Event: core.BuildReservationBecameReady("r-1", "book-2", patronID, now.Add(-4*24*time.Hour), now.Add(-7*24*time.Hour))},
		{Sequence: 5, Event: core.BuildBookReturned("book-1", patronID, now.Add(-2*24*time.Hour), core.Cents(20), core.Cents(20), now)},
		{Sequence: 6, Event: core.BuildBookBorrowed("book-1", "patron-2", "", false, now.Add(24*time.Hour), now)},
		{Sequence: 7, Event: core.BuildFinePaid(patronID, core.Cents(20), core.PaymentCash, "", now)},
	}
}

func Test_BuildQuery_Normalizes_Paging(t *testing.T) {
	testCases := []struct {
		description    string
		limit, offset  int
		expectedLimit  int
		expectedOffset int
	}{
		{description: "default limit", limit: 0, offset: 0, expectedLimit: 50, expectedOffset: 0},
		{description: "capped limit", limit: 500, offset: 3, expectedLimit: 200, expectedOffset: 3},
		{description: "negative offset", limit: 10, offset: -1, expectedLimit: 10, expectedOffset: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			query := ledgerhistory.BuildQuery(patronID, "", time.Time{}, time.Time{}, tc.limit, tc.offset)

			// assert
			assert.Equal(t, tc.expectedLimit, query.Limit)
			assert.Equal(t, tc.expectedOffset, query.Offset)
		})
	}
}

func Test_Project_Newest_First_Without_Internal_Events(t *testing.T) {
	// act
	result := ledgerhistory.Project(sequencedHistory(), ledgerhistory.BuildQuery(patronID, "", time.Time{}, time.Time{}, 0, 0))

	// assert
	require.Equal(t, 4, result.Total)
	types := make([]string, 0, len(result.Entries))
	for _, entry := range result.Entries {
		types = append(types, entry.Type)
	}
	assert.Equal(t, []string{ledger.EntryFinePayment, ledger.EntryReturn, ledger.EntryReserve, ledger.EntryBorrow}, types)
	assert.Equal(t, core.Cents(20), result.Entries[1].Amount)
}

func Test_Project_Filters_By_Type_And_Pages(t *testing.T) {
	// act
	page := ledgerhistory.Project(sequencedHistory(), ledgerhistory.BuildQuery(patronID, "", time.Time{}, time.Time{}, 2, 1))
	onlyReturns := ledgerhistory.Project(sequencedHistory(), ledgerhistory.BuildQuery(patronID, ledger.EntryReturn, time.Time{}, time.Time{}, 0, 0))
	beyond := ledgerhistory.Project(sequencedHistory(), ledgerhistory.BuildQuery(patronID, "", time.Time{}, time.Time{}, 10, 10))

	// assert
	require.Len(t, page.Entries, 2)
	assert.Equal(t, uint(5), page.Entries[0].Sequence)
	assert.Equal(t, uint(3), page.Entries[1].Sequence)
	require.Len(t, onlyReturns.Entries, 1)
	assert.Equal(t, 1, onlyReturns.Total)
	assert.Empty(t, beyond.Entries)
	assert.Equal(t, 4, beyond.Total)
}

func Test_Validate(t *testing.T) {
	// act + assert
	assert.NoError(t, ledgerhistory.Validate(ledgerhistory.BuildQuery(patronID, ledger.EntryBorrow, time.Time{}, time.Time{}, 0, 0)))
	assert.ErrorIs(t, ledgerhistory.Validate(ledgerhistory.BuildQuery(patronID, "LOST", time.Time{}, time.Time{}, 0, 0)), core.ErrInvalidInput)
	assert.ErrorIs(t, ledgerhistory.Validate(ledgerhistory.BuildQuery(patronID, "", now, now.Add(-time.Hour), 0, 0)), core.ErrInvalidInput)
}
