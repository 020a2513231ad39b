package sweeper_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending-go/lending/clock"
	"github.com/AntonStoeckl/library-lending-go/lending/coordination"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/expirereservation"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/loansduesoon"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/readyreservations"
	"github.com/AntonStoeckl/library-lending-go/lending/notification"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/lending/sweeper"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
	"github.com/AntonStoeckl/library-lending-go/testutil/testdoubles"
)

const (
	bookID = "b-1"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Notification
}

func (n *recordingNotifier) Notify(notification notification.Notification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, notification)

	return true
}

func (n *recordingNotifier) Sent() []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]notification.Notification(nil), n.sent...)
}

func newSweeper(store sqliteengine.EventStore, opts ...sweeper.Option) *sweeper.Sweeper {
	return sweeper.New(
		readyreservations.NewQueryHandler(store),
		expirereservation.NewCommandHandler(store, core.DefaultPolicy(), expirereservation.WithRetryOptions(fixtures.FastRetry()...)),
		loansduesoon.NewQueryHandler(store),
		opts...,
	)
}

type failingExpirer struct {
	next          shell.CommandHandler[expirereservation.Command, expirereservation.Result]
	reservationID core.ReservationIDString
}

func (e failingExpirer) Handle(ctx context.Context, command expirereservation.Command) (expirereservation.Result, error) {
	if command.ReservationID == e.reservationID {
		return expirereservation.Result{}, errors.New("store unavailable")
	}

	return e.next.Handle(ctx, command)
}

func seedExpiredHoldWithWaitingPatron(t *testing.T, store sqliteengine.EventStore) {
	t.Helper()

	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		fixtures.PatronRegistered("p-1", core.TierStandard),
		fixtures.PatronRegistered("p-2", core.TierStandard),
		core.BuildBookReserved("r-1", bookID, "p-1", core.ReservationStateReady, fixtures.Now.Add(-time.Hour), fixtures.Now.Add(-73*time.Hour)),
		core.BuildBookReserved("r-2", bookID, "p-2", core.ReservationStatePending, time.Time{}, fixtures.Now.Add(-72*time.Hour)),
	)
}

func Test_Sweeper_RunOnce_Expires_And_Promotes(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	seedExpiredHoldWithWaitingPatron(t, store)
	notifier := &recordingNotifier{}
	s := newSweeper(store, sweeper.WithClock(clock.NewFixed(fixtures.Now)), sweeper.WithNotifier(notifier))

	// act
	result, err := s.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{Expired: 1, Promoted: 1}, result)
	assert.Len(t, fixtures.EventsOfType(t, store, core.ReservationExpiredEventType), 1)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindReservationReady, sent[0].Kind)
	assert.Equal(t, "p-2", sent[0].PatronID)
	assert.Equal(t, "r-2", sent[0].ReservationID)
}

func Test_Sweeper_RunOnce_Continues_After_A_Failing_Expiry(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	seedExpiredHoldWithWaitingPatron(t, store)
	fixtures.Seed(t, store,
		fixtures.BookAdded("b-2", 1),
		fixtures.PatronRegistered("p-3", core.TierStandard),
		core.BuildBookReserved("r-3", "b-2", "p-3", core.ReservationStateReady, fixtures.Now.Add(-2*time.Hour), fixtures.Now.Add(-74*time.Hour)),
	)

	logger, spy := testdoubles.NewLoggerSpy()
	s := sweeper.New(
		readyreservations.NewQueryHandler(store),
		failingExpirer{
			next:          expirereservation.NewCommandHandler(store, core.DefaultPolicy(), expirereservation.WithRetryOptions(fixtures.FastRetry()...)),
			reservationID: "r-1",
		},
		loansduesoon.NewQueryHandler(store),
		sweeper.WithClock(clock.NewFixed(fixtures.Now)),
		sweeper.WithLogger(logger),
	)

	// act
	result, err := s.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{Expired: 1, Failed: 1}, result)
	assert.True(t, spy.HasLog(slog.LevelWarn, "expiring reservation failed"))

	expired := fixtures.EventsOfType(t, store, core.ReservationExpiredEventType)
	require.Len(t, expired, 1)
	assert.Equal(t, "r-3", expired[0].(core.ReservationExpired).ReservationID)
	assert.Empty(t, fixtures.EventsOfType(t, store, core.ReservationBecameReadyEventType), "r-1 still holds the copy of b-1")
}

func Test_Sweeper_RunOnce_Twice_Expires_Once(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	seedExpiredHoldWithWaitingPatron(t, store)
	s := newSweeper(store, sweeper.WithClock(clock.NewFixed(fixtures.Now)))

	// act
	_, firstErr := s.RunOnce(context.Background())
	second, secondErr := s.RunOnce(context.Background())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, 0, second.Expired, "the promoted hold of r-2 has not run out yet")
	assert.Len(t, fixtures.EventsOfType(t, store, core.ReservationExpiredEventType), 1)
}

func Test_Sweeper_RunOnce_Cascades_Over_Runs(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	seedExpiredHoldWithWaitingPatron(t, store)
	now := clock.NewManual(fixtures.Now)
	s := newSweeper(store, sweeper.WithClock(now))

	// act
	first, firstErr := s.RunOnce(context.Background())
	now.Advance(core.DefaultPolicy().HoldWindow + time.Minute)
	second, secondErr := s.RunOnce(context.Background())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, 1, first.Expired)
	assert.Equal(t, 1, second.Expired)
	assert.Equal(t, 0, second.Promoted, "nobody is left in the queue")
	assert.Len(t, fixtures.EventsOfType(t, store, core.ReservationExpiredEventType), 2)
}

func Test_Sweeper_RunOnce_Leaves_Running_Holds_Alone(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 1),
		core.BuildBookReserved("r-1", bookID, "p-1", core.ReservationStateReady, fixtures.Now.Add(time.Hour), fixtures.Now.Add(-71*time.Hour)),
	)
	s := newSweeper(store, sweeper.WithClock(clock.NewFixed(fixtures.Now)))

	// act
	result, err := s.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{}, result)
	assert.Empty(t, fixtures.EventsOfType(t, store, core.ReservationExpiredEventType))
}

func Test_Sweeper_RunOnce_Skips_When_Lock_Is_Held(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	seedExpiredHoldWithWaitingPatron(t, store)
	locker := coordination.NewMemoryLocker()
	_, acquired, err := locker.TryLock(context.Background(), "expiry-sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	logger, spy := testdoubles.NewLoggerSpy()
	s := newSweeper(store,
		sweeper.WithClock(clock.NewFixed(fixtures.Now)),
		sweeper.WithLocker(locker),
		sweeper.WithLogger(logger),
	)

	// act
	result, err := s.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Empty(t, fixtures.EventsOfType(t, store, core.ReservationExpiredEventType))
	assert.True(t, spy.HasLog(slog.LevelInfo, "expiry sweep skipped, another instance holds the lock"))
}

func Test_Sweeper_RunOnce_Releases_The_Lock(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	locker := coordination.NewMemoryLocker()
	s := newSweeper(store, sweeper.WithClock(clock.NewFixed(fixtures.Now)), sweeper.WithLocker(locker))

	// act
	_, err := s.RunOnce(context.Background())

	// assert
	require.NoError(t, err)
	_, acquired, lockErr := locker.TryLock(context.Background(), "expiry-sweep", time.Minute)
	require.NoError(t, lockErr)
	assert.True(t, acquired)
}

func Test_Sweeper_RunDueSoon_Reminds_Once_Per_Loan(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	fixtures.Seed(t, store,
		fixtures.BookAdded(bookID, 2),
		fixtures.BookAdded("b-2", 1),
		fixtures.PatronRegistered("p-1", core.TierStandard),
		core.BuildBookBorrowed(bookID, "p-1", "", false, fixtures.Now.Add(24*time.Hour), fixtures.Now.Add(-13*24*time.Hour)),
		core.BuildBookBorrowed("b-2", "p-1", "", false, fixtures.Now.Add(10*24*time.Hour), fixtures.Now.Add(-4*24*time.Hour)),
	)
	notifier := &recordingNotifier{}
	s := newSweeper(store,
		sweeper.WithClock(clock.NewFixed(fixtures.Now)),
		sweeper.WithNotifier(notifier),
		sweeper.WithDeduper(coordination.NewMemoryDeduper()),
	)

	// act
	first, firstErr := s.RunDueSoon(context.Background())
	second, secondErr := s.RunDueSoon(context.Background())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindLoanDueSoon, sent[0].Kind)
	assert.Equal(t, bookID, sent[0].BookID)
}

func Test_Sweeper_Run_Stops_When_Context_Ends(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	s := newSweeper(store, sweeper.WithInterval(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// act
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	// assert
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the context ended")
	}
}
