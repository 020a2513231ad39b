package addbookcopies_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbookcopies"
)

const bookID = "book-1"

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func Test_Decide_AddBookCopies_Creates_Book(t *testing.T) {
	// act
	result := addbookcopies.Decide(nil, addbookcopies.BuildCommand(bookID, "978-0", "Dune", "Frank Herbert", 2, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 1)
	assert.Equal(t, 2, result.Events[0].(core.BookAddedToCatalog).Copies)
}

func Test_Decide_AddBookCopies_Promotes_Waiting_Reservation(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(bookID, "978-0", "Dune", "Frank Herbert", 1, now.Add(-48*time.Hour)),
		core.BuildBookBorrowed(bookID, "patron-1", "", false, now.Add(24*time.Hour), now.Add(-24*time.Hour)),
		core.BuildBookReserved("r-1", bookID, "patron-2", core.ReservationStatePending, time.Time{}, now.Add(-time.Hour)),
	}

	// act
	result := addbookcopies.Decide(history, addbookcopies.BuildCommand(bookID, "", "", "", 1, now), core.DefaultPolicy())

	// assert
	require.NoError(t, result.HasError())
	require.Len(t, result.Events, 2)
	assert.Equal(t, "r-1", result.Events[1].(core.ReservationBecameReady).ReservationID)
}

func Test_Decide_AddBookCopies_Invalid_Input(t *testing.T) {
	testCases := []struct {
		description string
		bookID      string
		copies      int
	}{
		{description: "zero copies", bookID: bookID, copies: 0},
		{description: "negative copies", bookID: bookID, copies: -1},
		{description: "empty book id", bookID: "", copies: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := addbookcopies.Decide(nil, addbookcopies.BuildCommand(tc.bookID, "", "", "", tc.copies, now), core.DefaultPolicy())

			// assert
			assert.ErrorIs(t, result.HasError(), core.ErrInvalidInput)
		})
	}
}
