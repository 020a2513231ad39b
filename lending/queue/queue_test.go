package queue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
)

const (
	bookID      = "book-1"
	otherBookID = "book-2"
	holdWindow  = 72 * time.Hour
)

var t0 = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)

func reserved(id, book, patron string, state core.ReservationState, at time.Time) core.BookReserved {
	var expiresAt time.Time
	if state == core.ReservationStateReady {
		expiresAt = at.Add(holdWindow)
	}

	return core.BuildBookReserved(id, book, patron, state, expiresAt, at)
}

func Test_Project_Ignores_Other_Books(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0),
		reserved("r-2", otherBookID, "p-2", core.ReservationStatePending, t0),
	}

	// act
	q := queue.Project(history, bookID)

	// assert
	assert.Len(t, q.All(), 1)
	assert.Equal(t, 1, q.ActiveCount())
}

func Test_Pending_Is_FIFO_With_Id_TieBreak(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		reserved("r-c", bookID, "p-1", core.ReservationStatePending, t0.Add(2*time.Minute)),
		reserved("r-b", bookID, "p-2", core.ReservationStatePending, t0),
		reserved("r-a", bookID, "p-3", core.ReservationStatePending, t0),
	}

	// act
	pending := queue.Project(history, bookID).Pending()

	// assert
	require.Len(t, pending, 3)
	assert.Equal(t, []string{"r-a", "r-b", "r-c"}, []string{pending[0].ID, pending[1].ID, pending[2].ID})
}

func Test_Promote_Earliest_Pending(t *testing.T) {
	// arrange
	q := queue.Project(core.DomainEvents{
		reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0),
		reserved("r-2", bookID, "p-2", core.ReservationStatePending, t0.Add(time.Minute)),
	}, bookID)
	now := t0.Add(time.Hour)

	// act
	event, promoted := q.Promote(now, holdWindow, 1)

	// assert
	require.True(t, promoted)
	assert.Equal(t, "r-1", event.ReservationID)
	assert.Equal(t, "p-1", event.PatronID)
	assert.True(t, now.Add(holdWindow).Equal(event.ReadyExpiresAt))

	ready, hasReady := q.Ready()
	require.True(t, hasReady)
	assert.Equal(t, "r-1", ready.ID)
	assert.Len(t, q.Pending(), 1)
}

func Test_Promote_NoOp_Cases(t *testing.T) {
	testCases := []struct {
		name      string
		history   core.DomainEvents
		available int
	}{
		{
			name:      "no free copy",
			history:   core.DomainEvents{reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0)},
			available: 0,
		},
		{
			name: "a reservation is already READY",
			history: core.DomainEvents{
				reserved("r-1", bookID, "p-1", core.ReservationStateReady, t0),
				reserved("r-2", bookID, "p-2", core.ReservationStatePending, t0.Add(time.Minute)),
			},
			available: 1,
		},
		{
			name:      "nobody is waiting",
			history:   core.DomainEvents{},
			available: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			q := queue.Project(tc.history, bookID)

			// act
			_, promoted := q.Promote(t0.Add(time.Hour), holdWindow, tc.available)

			// assert
			assert.False(t, promoted)
		})
	}
}

func Test_Apply_Lifecycle(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0),
		reserved("r-2", bookID, "p-2", core.ReservationStatePending, t0.Add(time.Minute)),
		reserved("r-3", bookID, "p-3", core.ReservationStatePending, t0.Add(2*time.Minute)),
		core.BuildReservationBecameReady("r-1", bookID, "p-1", t0.Add(time.Hour+holdWindow), t0.Add(time.Hour)),
		core.BuildBookBorrowed(bookID, "p-1", "r-1", true, t0.Add(15*24*time.Hour), t0.Add(2*time.Hour)),
		core.BuildReservationCancelled("r-2", bookID, "p-2", false, t0.Add(3*time.Hour)),
		core.BuildReservationBecameReady("r-3", bookID, "p-3", t0.Add(4*time.Hour+holdWindow), t0.Add(4*time.Hour)),
		core.BuildReservationExpired("r-3", bookID, "p-3", t0.Add(5*time.Hour+holdWindow)),
	}

	// act
	q := queue.Project(history, bookID)

	// assert
	states := map[string]core.ReservationState{}
	for _, r := range q.All() {
		states[r.ID] = r.State
	}

	assert.Equal(t, map[string]core.ReservationState{
		"r-1": core.ReservationStateFulfilled,
		"r-2": core.ReservationStateCancelled,
		"r-3": core.ReservationStateExpired,
	}, states)
	assert.False(t, q.HasActive())
}

func Test_ActiveFor_And_Find(t *testing.T) {
	// arrange
	q := queue.Project(core.DomainEvents{
		reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0),
		core.BuildReservationCancelled("r-1", bookID, "p-1", false, t0.Add(time.Minute)),
		reserved("r-2", bookID, "p-1", core.ReservationStatePending, t0.Add(2*time.Minute)),
	}, bookID)

	// act
	active, hasActive := q.ActiveFor("p-1")
	cancelled, found := q.Find("r-1")
	_, otherHasActive := q.ActiveFor("p-2")

	// assert
	require.True(t, hasActive)
	assert.Equal(t, "r-2", active.ID)
	require.True(t, found)
	assert.Equal(t, core.ReservationStateCancelled, cancelled.State)
	assert.False(t, otherHasActive)
}

func Test_Reservation_IsExpiredAt(t *testing.T) {
	// arrange
	q := queue.Project(core.DomainEvents{reserved("r-1", bookID, "p-1", core.ReservationStateReady, t0)}, bookID)
	ready, _ := q.Ready()

	// act + assert
	assert.False(t, ready.IsExpiredAt(t0.Add(holdWindow)), "not expired exactly at the deadline")
	assert.True(t, ready.IsExpiredAt(t0.Add(holdWindow+time.Second)))
}

func Test_Apply_Ignores_Duplicate_Reservation(t *testing.T) {
	// arrange
	event := reserved("r-1", bookID, "p-1", core.ReservationStatePending, t0)

	// act
	q := queue.Project(core.DomainEvents{event, event}, bookID)

	// assert
	assert.Len(t, q.All(), 1)
}
