package shell_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

var at = time.Date(2025, time.June, 3, 12, 0, 0, 123456000, time.UTC)

func Test_StorableEventFrom_And_Back_For_All_Event_Types(t *testing.T) {
	// arrange
	events := core.DomainEvents{
		core.BuildBookAddedToCatalog("b-1", "978-3-16-148410-0", "Dune", "Frank Herbert", 2, at),
		core.BuildPatronRegistered("p-1", "Ada", core.TierStudent, at),
		core.BuildBookBorrowed("b-1", "p-1", "r-1", true, at.Add(14*24*time.Hour), at),
		core.BuildBookReturned("b-1", "p-1", at, core.Cents(30), core.Cents(40), at),
		core.BuildBookReserved("r-2", "b-1", "p-1", core.ReservationStatePending, time.Time{}, at),
		core.BuildReservationBecameReady("r-2", "b-1", "p-1", at.Add(72*time.Hour), at),
		core.BuildReservationCancelled("r-2", "b-1", "p-1", true, at),
		core.BuildReservationExpired("r-2", "b-1", "p-1", at),
		core.BuildFinePaid("p-1", core.Cents(40), core.PaymentOnline, "tx-9", at),
	}

	// act
	storableEvents, err := shell.StorableEventsFrom(events, uuid.New())
	require.NoError(t, err)

	domainEvents, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	// assert
	assert.Equal(t, events, domainEvents)
}

func Test_StorableEventsFrom_Links_Metadata(t *testing.T) {
	// arrange
	causationID := uuid.New()
	events := core.DomainEvents{
		core.BuildBookReturned("b-1", "p-1", at, 0, 0, at),
		core.BuildReservationBecameReady("r-1", "b-1", "p-2", at.Add(72*time.Hour), at),
	}

	// act
	storableEvents, err := shell.StorableEventsFrom(events, causationID)
	require.NoError(t, err)

	// assert
	first, err := shell.EventMetadataFrom(storableEvents[0])
	require.NoError(t, err)
	second, err := shell.EventMetadataFrom(storableEvents[1])
	require.NoError(t, err)

	assert.Equal(t, causationID.String(), first.CausationID)
	assert.Equal(t, causationID.String(), first.CorrelationID)
	assert.Equal(t, first.MessageID, second.CausationID)
	assert.Equal(t, causationID.String(), second.CorrelationID)
}

func Test_StorableEventFrom_Payload_Keys_Are_Filterable(t *testing.T) {
	// act
	storableEvent, err := shell.StorableEventFrom(
		core.BuildBookBorrowed("b-1", "p-1", "", false, at, at),
		shell.EventMetadata{},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.BookBorrowedEventType, storableEvent.EventType)
	assert.Contains(t, string(storableEvent.PayloadJSON), `"BookID":"b-1"`)
	assert.Contains(t, string(storableEvent.PayloadJSON), `"PatronID":"p-1"`)
	assert.NotContains(t, string(storableEvent.PayloadJSON), `"ReservationID"`)
}

func Test_DomainEventFrom_Unknown_Event_Type(t *testing.T) {
	// arrange
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata("BookLost", at, []byte(`{}`))
	require.NoError(t, err)

	// act
	_, err = shell.DomainEventFrom(storableEvent)

	// assert
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventUnknownEventType)
}

func Test_DomainEventFrom_Broken_Payload(t *testing.T) {
	// arrange
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata(core.BookBorrowedEventType, at, []byte(`{"BookID":42}`))
	require.NoError(t, err)

	// act
	_, err = shell.DomainEventFrom(storableEvent)

	// assert
	assert.ErrorIs(t, err, shell.ErrMappingToDomainEventFailed)
}

func Test_SequencedEventsFrom_Keeps_Sequence_Numbers(t *testing.T) {
	// arrange
	storableEvent, err := shell.StorableEventFrom(core.BuildFinePaid("p-1", core.Cents(5), core.PaymentCash, "", at), shell.EventMetadata{})
	require.NoError(t, err)
	storableEvent.SequenceNumber = 42

	// act
	sequenced, err := shell.SequencedEventsFrom(eventstore.StorableEvents{storableEvent})

	// assert
	require.NoError(t, err)
	require.Len(t, sequenced, 1)
	assert.Equal(t, uint(42), sequenced[0].Sequence)
	assert.Equal(t, core.FinePaidEventType, sequenced[0].Event.IsEventType())
}
