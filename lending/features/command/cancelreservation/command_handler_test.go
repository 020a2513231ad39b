package cancelreservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

func Test_CommandHandler_Cancel_Ready_Hold_Promotes_Next(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		fixtures.PatronRegistered(patronID, core.TierStandard),
		fixtures.PatronRegistered(otherID, core.TierStandard),
		core.BuildBookReserved("r-1", bookID, patronID, core.ReservationStateReady, fixtures.Now.Add(72*time.Hour), fixtures.Now.Add(-2*time.Hour)),
		core.BuildBookReserved("r-2", bookID, otherID, core.ReservationStatePending, time.Time{}, fixtures.Now.Add(-time.Hour)),
	)
	handler := cancelreservation.NewCommandHandler(store, core.DefaultPolicy(), cancelreservation.WithRetryOptions(fixtures.FastRetry()...))

	// act
	result, err := handler.Handle(context.Background(), cancelreservation.BuildCommand(patronID, "r-1", fixtures.Now))

	// assert
	require.NoError(t, err)
	assert.True(t, result.WasReady)
	require.Len(t, result.Promoted, 1)
	assert.Equal(t, "r-2", result.Promoted[0].ReservationID)
}

func Test_CommandHandler_Cancel_Unknown_Reservation(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store, fixtures.PatronRegistered(patronID, core.TierStandard))
	handler := cancelreservation.NewCommandHandler(store, core.DefaultPolicy())

	// act
	_, err := handler.Handle(context.Background(), cancelreservation.BuildCommand(patronID, "missing", fixtures.Now))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_CommandHandler_Cancel_Reservation_Of_Another_Patron(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		core.BuildBookReserved("r-1", bookID, otherID, core.ReservationStateReady, fixtures.Now.Add(72*time.Hour), fixtures.Now.Add(-time.Hour)),
	)
	handler := cancelreservation.NewCommandHandler(store, core.DefaultPolicy())

	// act
	_, err := handler.Handle(context.Background(), cancelreservation.BuildCommand(patronID, "r-1", fixtures.Now))

	// assert
	assert.ErrorIs(t, err, core.ErrNotOwned)
	assert.Empty(t, fixtures.EventsOfType(t, store, core.ReservationCancelledEventType))
}

func Test_CommandHandler_Cancel_Locates_The_Book_Of_The_Own_Reservation(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		fixtures.BookAdded("book-7", 1),
		fixtures.PatronRegistered(patronID, core.TierStandard),
		fixtures.PatronRegistered(otherID, core.TierStandard),
		core.BuildBookReserved("r-1", "book-7", otherID, core.ReservationStateReady, fixtures.Now.Add(72*time.Hour), fixtures.Now.Add(-2*time.Hour)),
		core.BuildBookReserved("r-1", bookID, patronID, core.ReservationStateReady, fixtures.Now.Add(72*time.Hour), fixtures.Now.Add(-time.Hour)),
	)
	handler := cancelreservation.NewCommandHandler(store, core.DefaultPolicy(), cancelreservation.WithRetryOptions(fixtures.FastRetry()...))

	// act
	result, err := handler.Handle(context.Background(), cancelreservation.BuildCommand(patronID, "r-1", fixtures.Now))

	// assert
	require.NoError(t, err)
	assert.True(t, result.WasReady)
	cancelled := fixtures.EventsOfType(t, store, core.ReservationCancelledEventType)
	require.Len(t, cancelled, 1)
	assert.Equal(t, bookID, cancelled[0].(core.ReservationCancelled).BookID)
	assert.Equal(t, patronID, cancelled[0].(core.ReservationCancelled).PatronID)
}
