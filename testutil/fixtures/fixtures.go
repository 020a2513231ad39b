package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/testdoubles"
)

// Now is the reference instant of the lending fixtures.
var Now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

// NewEventStore returns a fresh in-memory SQLite event store that logs into a spy.
func NewEventStore(t testing.TB) sqliteengine.EventStore {
	t.Helper()

	logger, _ := testdoubles.NewLoggerSpy()

	return sqliteengine.NewTestEventStore(t, sqliteengine.WithLogger(logger))
}

// FastRetry keeps retry backoffs short in tests.
func FastRetry() []shell.RetryOption {
	return []shell.RetryOption{shell.WithBaseDelay(time.Millisecond), shell.WithMaxAttempts(10)}
}

// BookAdded returns a BookAddedToCatalog event with generated metadata.
func BookAdded(bookID core.BookIDString, copies int) core.BookAddedToCatalog {
	return core.BuildBookAddedToCatalog(bookID, "978-0-00-000000-0", "Title of "+bookID, "Author of "+bookID, copies, Now.Add(-30*24*time.Hour))
}

// PatronRegistered returns a PatronRegistered event for a patron of the given tier.
func PatronRegistered(patronID core.PatronIDString, tier core.MembershipTier) core.PatronRegistered {
	return core.BuildPatronRegistered(patronID, "Patron "+patronID, tier, Now.Add(-30*24*time.Hour))
}

// Seed appends the events unconditionally, in order, as one transition.
func Seed(t testing.TB, store shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	all := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := store.Query(ctx, all)
	require.NoError(t, err)

	storableEvents, err := shell.StorableEventsFrom(events, uuid.New())
	require.NoError(t, err)

	require.NoError(t, store.Append(ctx, all, maxSequenceNumber, storableEvents...))
}

// History returns every event in the store, in sequence order.
func History(t testing.TB, store shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := store.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return history
}

// EventsOfType returns the events of the given type in the store, in sequence order.
func EventsOfType(t testing.TB, store shell.QueriesEvents, eventType core.EventTypeString) core.DomainEvents {
	t.Helper()

	matching := make(core.DomainEvents, 0)

	for _, event := range History(t, store) {
		if event.IsEventType() == eventType {
			matching = append(matching, event)
		}
	}

	return matching
}
