package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

func Test_CommandHandler_Return_Then_Promote(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		fixtures.PatronRegistered(patronID, core.TierStandard),
		fixtures.PatronRegistered(otherID, core.TierStandard),
		core.BuildBookBorrowed(bookID, patronID, "", false, fixtures.Now.Add(-3*24*time.Hour), fixtures.Now.Add(-17*24*time.Hour)),
		core.BuildBookReserved("r-1", bookID, otherID, core.ReservationStatePending, time.Time{}, fixtures.Now.Add(-24*time.Hour)),
	)
	handler := returnbook.NewCommandHandler(store, core.DefaultPolicy(), returnbook.WithRetryOptions(fixtures.FastRetry()...))

	// act
	result, err := handler.Handle(context.Background(), returnbook.BuildCommand(patronID, bookID, fixtures.Now))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.Cents(30), result.LateFee)
	assert.Equal(t, core.Cents(30), result.OutstandingFines)
	require.Len(t, result.Promoted, 1)
	assert.Equal(t, "r-1", result.Promoted[0].ReservationID)
	assert.Len(t, fixtures.EventsOfType(t, store, core.ReservationBecameReadyEventType), 1)
}

func Test_CommandHandler_Return_Twice_Is_NotBorrowed(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		fixtures.PatronRegistered(patronID, core.TierStandard),
		core.BuildBookBorrowed(bookID, patronID, "", false, fixtures.Now.Add(24*time.Hour), fixtures.Now.Add(-time.Hour)),
	)
	handler := returnbook.NewCommandHandler(store, core.DefaultPolicy())
	command := returnbook.BuildCommand(patronID, bookID, fixtures.Now)

	_, err := handler.Handle(context.Background(), command)
	require.NoError(t, err)

	// act
	_, err = handler.Handle(context.Background(), command)

	// assert
	assert.ErrorIs(t, err, core.ErrNotBorrowed)
	assert.Len(t, fixtures.EventsOfType(t, store, core.BookReturnedEventType), 1)
}
