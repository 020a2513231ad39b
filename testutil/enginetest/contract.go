package enginetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// EventStore is the engine surface exercised by the contract.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// StoreFactory returns an empty, migrated event store that is isolated from other tests.
type StoreFactory func(t *testing.T) EventStore

const (
	typeBookAdded    = "BookAddedToCatalog"
	typeBookBorrowed = "BookBorrowed"
	typeBookReturned = "BookReturned"
)

// RunContractTests runs the engine contract against stores built by newStore.
func RunContractTests(t *testing.T, newStore StoreFactory) {
	t.Run("Append_When_NoEvent_MatchesTheFilter", func(t *testing.T) {
		testAppendWhenNoEventMatches(t, newStore(t))
	})
	t.Run("Append_When_A_ConcurrencyConflict_ShouldHappen", func(t *testing.T) {
		testAppendConflict(t, newStore(t))
	})
	t.Run("Append_When_OtherBoundaries_Were_Appended_Meanwhile", func(t *testing.T) {
		testAppendUnrelatedInterleave(t, newStore(t))
	})
	t.Run("Append_MultipleEvents_Atomically", func(t *testing.T) {
		testAppendMultipleEvents(t, newStore(t))
	})
	t.Run("Append_Without_Events", func(t *testing.T) {
		testAppendWithoutEvents(t, newStore(t))
	})
	t.Run("Query_With_OR_Predicates_And_EventTypes", func(t *testing.T) {
		testQueryPredicatesAndTypes(t, newStore(t))
	})
	t.Run("Query_With_AllPredicatesOf", func(t *testing.T) {
		testQueryAllPredicates(t, newStore(t))
	})
	t.Run("Query_With_OccurredBetween", func(t *testing.T) {
		testQueryTimeRange(t, newStore(t))
	})
	t.Run("Append_Concurrently_On_The_Same_Boundary", func(t *testing.T) {
		testConcurrentAppends(t, newStore(t))
	})
}

func testAppendWhenNoEventMatches(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	filter := bookFilter(bookID)
	clock := fixedClock()

	// act
	err := es.Append(ctx, filter, 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}))

	// assert
	require.NoError(t, err)

	events, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, typeBookAdded, events[0].EventType)
	assert.True(t, clock.Equal(events[0].OccurredAt), "occurredAt must survive the round trip")
	assert.Equal(t, events[0].SequenceNumber, maxSeq)
	assert.Positive(t, maxSeq)
}

func testAppendConflict(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	patronID := uniqueID()
	filter := bookFilter(bookID)
	clock := fixedClock()
	appendOK(t, es, filter, 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}))
	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	appendOK(t, es, filter, maxSeq, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": patronID}))

	// act
	err = es.Append(ctx, filter, maxSeq, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": uniqueID()}))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	events, _, err := es.Query(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, events, 2, "the conflicting append must not have written anything")
}

func testAppendUnrelatedInterleave(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	otherBookID := uniqueID()
	filter := bookFilter(bookID)
	clock := fixedClock()
	appendOK(t, es, filter, 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}))
	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	appendOK(t, es, bookFilter(otherBookID), 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": otherBookID}))

	// act
	err = es.Append(ctx, filter, maxSeq, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": uniqueID()}))

	// assert
	assert.NoError(t, err)
}

func testAppendMultipleEvents(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	patronID := uniqueID()
	filter := bookFilter(bookID)
	clock := fixedClock()

	// act
	err := es.Append(ctx, filter, 0,
		storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}),
		storable(t, typeBookBorrowed, clock.Add(time.Second), map[string]string{"BookID": bookID, "PatronID": patronID}),
		storable(t, typeBookReturned, clock.Add(2*time.Second), map[string]string{"BookID": bookID, "PatronID": patronID}),
	)

	// assert
	require.NoError(t, err)

	events, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{typeBookAdded, typeBookBorrowed, typeBookReturned},
		[]string{events[0].EventType, events[1].EventType, events[2].EventType})
	assert.Less(t, events[0].SequenceNumber, events[1].SequenceNumber)
	assert.Less(t, events[1].SequenceNumber, events[2].SequenceNumber)
	assert.Equal(t, events[2].SequenceNumber, maxSeq)

	// a stale append of several events is rejected as a whole
	err = es.Append(ctx, filter, 0,
		storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": uniqueID()}),
		storable(t, typeBookReturned, clock, map[string]string{"BookID": bookID, "PatronID": uniqueID()}),
	)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)

	events, _, err = es.Query(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func testAppendWithoutEvents(t *testing.T, es EventStore) {
	// act
	err := es.Append(testContext(t), bookFilter(uniqueID()), 0)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
}

func testQueryPredicatesAndTypes(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	patronID := uniqueID()
	otherBookID := uniqueID()
	clock := fixedClock()
	appendOK(t, es, bookFilter(bookID), 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}))
	appendOK(t, es, bookFilter(otherBookID), 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": otherBookID}))
	appendOK(t, es, bookFilter(uniqueID()), 0, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": uniqueID(), "PatronID": patronID}))

	boundary := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID), eventstore.P("PatronID", patronID)).
		Finalize()

	typed := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(typeBookAdded).
		AndAnyPredicateOf(eventstore.P("BookID", bookID), eventstore.P("BookID", otherBookID)).
		OrMatching().
		AnyEventTypeOf(typeBookReturned).
		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()

	// act
	boundaryEvents, _, boundaryErr := es.Query(ctx, boundary)
	typedEvents, _, typedErr := es.Query(ctx, typed)

	// assert
	require.NoError(t, boundaryErr)
	require.NoError(t, typedErr)
	assert.Len(t, boundaryEvents, 2)
	assert.Len(t, typedEvents, 2)
}

func testQueryAllPredicates(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	patronID := uniqueID()
	clock := fixedClock()
	appendOK(t, es, bookFilter(bookID), 0, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": patronID}))
	appendOK(t, es, bookFilter(uniqueID()), 0, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": uniqueID(), "PatronID": patronID}))

	filter := eventstore.BuildEventFilter().
		Matching().
		AllPredicatesOf(eventstore.P("BookID", bookID), eventstore.P("PatronID", patronID)).
		Finalize()

	// act
	events, _, err := es.Query(ctx, filter)

	// assert
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func testQueryTimeRange(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	patronID := uniqueID()
	clock := fixedClock()
	filter := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("PatronID", patronID)).Finalize()

	for day := 0; day < 5; day++ {
		_, maxSeq, err := es.Query(ctx, filter)
		require.NoError(t, err)
		appendOK(t, es, filter, maxSeq,
			storable(t, typeBookBorrowed, clock.Add(time.Duration(day)*24*time.Hour), map[string]string{"BookID": uniqueID(), "PatronID": patronID}))
	}

	// act
	events, _, err := es.Query(ctx, filter.WithOccurredBetween(clock.Add(24*time.Hour), clock.Add(3*24*time.Hour)))
	openEnded, _, openErr := es.Query(ctx, filter.WithOccurredBetween(clock.Add(4*24*time.Hour), time.Time{}))

	// assert
	require.NoError(t, err)
	require.NoError(t, openErr)
	assert.Len(t, events, 3)
	assert.Len(t, openEnded, 1)
}

func testConcurrentAppends(t *testing.T, es EventStore) {
	ctx := testContext(t)

	// arrange
	bookID := uniqueID()
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
	clock := fixedClock()
	appendOK(t, es, filter, 0, storable(t, typeBookAdded, clock, map[string]string{"BookID": bookID}))
	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)

	const contenders = 8
	var succeeded, conflicted atomic.Int32
	var unexpected sync.Map
	var wg sync.WaitGroup

	borrowed := make([]eventstore.StorableEvent, 0, contenders)
	for i := 0; i < contenders; i++ {
		borrowed = append(borrowed, storable(t, typeBookBorrowed, clock, map[string]string{"BookID": bookID, "PatronID": uniqueID()}))
	}

	// act
	for i, event := range borrowed {
		wg.Add(1)

		go func() {
			defer wg.Done()

			appendErr := es.Append(ctx, filter, maxSeq, event)

			switch {
			case appendErr == nil:
				succeeded.Add(1)
			case errors.Is(appendErr, eventstore.ErrConcurrencyConflict):
				conflicted.Add(1)
			default:
				unexpected.Store(i, appendErr)
			}
		}()
	}

	wg.Wait()

	// assert
	unexpected.Range(func(key, value any) bool {
		t.Errorf("unexpected append error for %v: %v", key, value)
		return true
	})
	assert.Equal(t, int32(1), succeeded.Load(), "exactly one contender must win")
	assert.Equal(t, int32(contenders-1), conflicted.Load())

	events, _, err := es.Query(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func bookFilter(bookID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}

func storable(t *testing.T, eventType string, occurredAt time.Time, payload map[string]string) eventstore.StorableEvent {
	t.Helper()

	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	require.NoError(t, err)

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(eventType, occurredAt, payloadJSON)
	require.NoError(t, err)

	return event
}

func appendOK(
	t *testing.T,
	es EventStore,
	filter eventstore.Filter,
	maxSeq eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) {

	t.Helper()
	require.NoError(t, es.Append(testContext(t), filter, maxSeq, events...))
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx
}

func uniqueID() string {
	return uuid.NewString()
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
}
