package service_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending-go/lending/catalog"
	"github.com/AntonStoeckl/library-lending-go/lending/clock"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
	"github.com/AntonStoeckl/library-lending-go/lending/notification"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
	"github.com/AntonStoeckl/library-lending-go/lending/service"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
	"github.com/AntonStoeckl/library-lending-go/testutil/testdoubles"
)

const day = 24 * time.Hour

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

type testEnv struct {
	store    sqliteengine.EventStore
	clock    *clock.Manual
	notifier *recordingNotifier
	service  *service.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := fixtures.NewEventStore(t)
	handlers, err := service.NewHandlers(store, core.DefaultPolicy(), service.Observability{}, fixtures.FastRetry()...)
	require.NoError(t, err)

	env := testEnv{
		store:    store,
		clock:    clock.NewManual(fixtures.Now),
		notifier: &recordingNotifier{},
	}
	env.service = service.New(handlers, service.WithClock(env.clock), service.WithNotifier(env.notifier))

	return env
}

func (e testEnv) addBook(t *testing.T, bookID core.BookIDString, copies int) {
	t.Helper()

	_, err := e.service.AddBookCopies(context.Background(), bookID, "978-3-16-148410-0", "Title of "+bookID, "Author", copies)
	require.NoError(t, err)
}

func (e testEnv) registerPatrons(t *testing.T, patronIDs ...core.PatronIDString) {
	t.Helper()

	for _, patronID := range patronIDs {
		require.NoError(t, e.service.RegisterPatron(context.Background(), patronID, "Patron "+patronID, core.TierStandard))
	}
}

func Test_Service_Concurrent_Borrow_Of_The_Last_Copy(t *testing.T) {
	// arrange
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	patronIDs := []core.PatronIDString{"p-1", "p-2", "p-3", "p-4", "p-5"}
	env.registerPatrons(t, patronIDs...)

	var wg sync.WaitGroup
	errs := make([]error, len(patronIDs))

	// act
	for i, patronID := range patronIDs {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_, errs[i] = env.service.Borrow(context.Background(), patronID, "b-1", 0)
		}()
	}

	wg.Wait()

	// assert
	successes := 0

	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.ErrorIs(t, err, core.ErrUnavailable)
	}

	assert.Equal(t, 1, successes)

	availability, err := env.service.BookAvailability(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, 0, availability.AvailableCopies)
	assert.Equal(t, catalog.StatusBorrowed, availability.Status)
}

func Test_Service_Return_Promotes_The_Waiting_Patron(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1", "p-2", "p-3")

	_, err := env.service.Borrow(ctx, "p-1", "b-1", 0)
	require.NoError(t, err)

	reservation, err := env.service.Reserve(ctx, "p-2", "b-1")
	require.NoError(t, err)
	require.Equal(t, core.ReservationStatePending, reservation.State)

	env.clock.Advance(2 * day)

	// act
	returned, err := env.service.ReturnBook(ctx, "p-1", "b-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.Cents(0), returned.LateFee)

	sent := env.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, notification.KindReservationReady, sent[0].Kind)
	assert.Equal(t, "p-2", sent[0].PatronID)
	assert.Equal(t, env.clock.Now().Add(core.DefaultPolicy().HoldWindow), sent[0].Deadline)

	availability, err := env.service.BookAvailability(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusReserved, availability.Status)
	assert.Equal(t, 0, availability.AvailableCopies)
	require.NotNil(t, availability.ReadyReservation)
	assert.Equal(t, reservation.ReservationID, availability.ReadyReservation.ReservationID)

	_, err = env.service.Borrow(ctx, "p-3", "b-1", 0)
	assert.ErrorIs(t, err, core.ErrUnavailable, "the copy is held for p-2")

	borrowed, err := env.service.Borrow(ctx, "p-2", "b-1", 0)
	require.NoError(t, err)
	assert.True(t, borrowed.FromHold)
}

func Test_Service_Reserve_Of_An_Available_Book_Is_Ready_At_Once(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1")

	// act
	reservation, err := env.service.Reserve(ctx, "p-1", "b-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.ReservationStateReady, reservation.State)
	assert.Equal(t, fixtures.Now.Add(core.DefaultPolicy().HoldWindow), reservation.ReadyExpiresAt)
	require.Len(t, env.notifier.Sent(), 1)
	assert.Equal(t, reservation.ReservationID, env.notifier.Sent()[0].ReservationID)
}

func Test_Service_Reserve_With_The_Same_ID_Is_Idempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1")

	// act
	first, firstErr := env.service.ReserveWithID(ctx, "r-1", "p-1", "b-1")
	second, secondErr := env.service.ReserveWithID(ctx, "r-1", "p-1", "b-1")

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, first, second)
	assert.Len(t, fixtures.EventsOfType(t, env.store, core.BookReservedEventType), 1)
	assert.Len(t, env.notifier.Sent(), 1)
}

func Test_Service_Reserve_With_A_Reused_ID_Does_Not_Touch_Availability(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1", "p-2")

	_, err := env.service.ReserveWithID(ctx, "r-1", "p-1", "b-1")
	require.NoError(t, err)
	require.NoError(t, env.service.CancelReservation(ctx, "p-1", "r-1"))

	// act
	_, reuseErr := env.service.ReserveWithID(ctx, "r-1", "p-2", "b-1")
	_, replayErr := env.service.ReserveWithID(ctx, "r-1", "p-1", "b-1")

	// assert
	assert.ErrorIs(t, reuseErr, core.ErrInvalidInput)
	assert.ErrorIs(t, replayErr, core.ErrInvalidState)

	availability, err := env.service.BookAvailability(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, 1, availability.AvailableCopies)
	assert.Equal(t, catalog.StatusAvailable, availability.Status)
	assert.Nil(t, availability.ReadyReservation)
}

func Test_Service_Expiry_Cascades_Through_The_Queue(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1", "p-2", "p-3")
	holdWindow := core.DefaultPolicy().HoldWindow

	_, err := env.service.Borrow(ctx, "p-1", "b-1", 0)
	require.NoError(t, err)
	_, err = env.service.Reserve(ctx, "p-2", "b-1")
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = env.service.Reserve(ctx, "p-3", "b-1")
	require.NoError(t, err)
	_, err = env.service.ReturnBook(ctx, "p-1", "b-1")
	require.NoError(t, err)

	// act
	env.clock.Advance(holdWindow + time.Minute)
	first, firstErr := env.service.RunExpirySweep(ctx)
	env.clock.Advance(holdWindow + time.Minute)
	second, secondErr := env.service.RunExpirySweep(ctx)

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, service.SweepResult{ExpiredCount: 1, PromotedCount: 1}, first)
	assert.Equal(t, service.SweepResult{ExpiredCount: 1}, second)

	sent := env.notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "p-2", sent[0].PatronID)
	assert.Equal(t, "p-3", sent[1].PatronID)

	availability, err := env.service.BookAvailability(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusAvailable, availability.Status)
	assert.Equal(t, 1, availability.AvailableCopies)
	assert.Equal(t, 0, availability.QueueLength)
}

func Test_Service_Late_Return_Charges_The_Fee_Per_Started_Day(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1")

	borrowed, err := env.service.Borrow(ctx, "p-1", "b-1", 14)
	require.NoError(t, err)
	require.Equal(t, fixtures.Now.Add(14*day), borrowed.DueAt)

	env.clock.Set(borrowed.DueAt.Add(2*day + time.Hour))

	// act
	returned, err := env.service.ReturnBook(ctx, "p-1", "b-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.Cents(30), returned.LateFee)
	assert.Equal(t, core.Cents(30), returned.OutstandingFines)
}

func Test_Service_Fines_Block_Borrowing_Until_Paid(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.addBook(t, "b-2", 1)
	env.registerPatrons(t, "p-1")

	borrowed, err := env.service.Borrow(ctx, "p-1", "b-1", 0)
	require.NoError(t, err)
	env.clock.Set(borrowed.DueAt.Add(3 * day))
	_, err = env.service.ReturnBook(ctx, "p-1", "b-1")
	require.NoError(t, err)

	// act
	_, blockedErr := env.service.Borrow(ctx, "p-1", "b-2", 0)
	reservation, reserveErr := env.service.Reserve(ctx, "p-1", "b-1")
	cancelErr := env.service.CancelReservation(ctx, "p-1", reservation.ReservationID)
	remaining, payErr := env.service.PayFine(ctx, "p-1", core.Cents(30), core.PaymentCash, "")
	_, borrowErr := env.service.Borrow(ctx, "p-1", "b-2", 0)

	// assert
	assert.ErrorIs(t, blockedErr, core.ErrFinesOutstanding)
	assert.NoError(t, reserveErr, "fines only block borrowing")
	assert.NoError(t, cancelErr)
	require.NoError(t, payErr)
	assert.Equal(t, core.Cents(0), remaining)
	assert.NoError(t, borrowErr)
}

func Test_Service_Cancel_Of_A_Ready_Reservation_Promotes_The_Next(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 1)
	env.registerPatrons(t, "p-1", "p-2")

	first, err := env.service.Reserve(ctx, "p-1", "b-1")
	require.NoError(t, err)
	require.Equal(t, core.ReservationStateReady, first.State)
	second, err := env.service.Reserve(ctx, "p-2", "b-1")
	require.NoError(t, err)
	require.Equal(t, core.ReservationStatePending, second.State)

	// act
	err = env.service.CancelReservation(ctx, "p-1", first.ReservationID)

	// assert
	require.NoError(t, err)
	sent := env.notifier.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, second.ReservationID, sent[1].ReservationID)

	assert.ErrorIs(t, env.service.CancelReservation(ctx, "p-1", second.ReservationID), core.ErrNotOwned)
	assert.ErrorIs(t, env.service.CancelReservation(ctx, "p-1", first.ReservationID), core.ErrInvalidState)
	assert.ErrorIs(t, env.service.CancelReservation(ctx, "p-1", "unknown"), core.ErrNotFound)
}

func Test_Service_PatronAccount_And_LedgerHistory(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b-1", 2)
	env.registerPatrons(t, "p-1")

	_, err := env.service.Borrow(ctx, "p-1", "b-1", 0)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.service.ReturnBook(ctx, "p-1", "b-1")
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.service.Borrow(ctx, "p-1", "b-1", 7)
	require.NoError(t, err)

	// act
	account, accountErr := env.service.PatronAccount(ctx, "p-1")
	history, historyErr := env.service.LedgerHistory(ctx, "p-1", service.LedgerFilter{})
	borrows, borrowsErr := env.service.LedgerHistory(ctx, "p-1", service.LedgerFilter{Type: ledger.EntryBorrow, Limit: 1})

	// assert
	require.NoError(t, accountErr)
	require.Len(t, account.Loans, 1)
	assert.Equal(t, env.clock.Now().Add(7*day), account.Loans[0].DueAt)
	assert.Len(t, account.Returned, 1)

	require.NoError(t, historyErr)
	assert.Equal(t, 3, history.Total)
	require.Len(t, history.Entries, 3)
	assert.Equal(t, ledger.EntryBorrow, history.Entries[0].Type, "newest first")
	assert.Equal(t, ledger.EntryReturn, history.Entries[1].Type)

	require.NoError(t, borrowsErr)
	assert.Equal(t, 2, borrows.Total)
	assert.Len(t, borrows.Entries, 1)
}

func Test_Service_With_Observability_Logs_Commands(t *testing.T) {
	// arrange
	store := fixtures.NewEventStore(t)
	logger, spy := testdoubles.NewLoggerSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	handlers, err := service.NewHandlers(
		store,
		core.DefaultPolicy(),
		service.Observability{MetricsCollector: metrics, Logger: logger, ContextualLogger: logger},
		fixtures.FastRetry()...,
	)
	require.NoError(t, err)
	svc := service.New(handlers, service.WithClock(clock.NewFixed(fixtures.Now)))

	// act
	regErr := svc.RegisterPatron(context.Background(), "p-1", "Ada", core.TierPremium)

	// assert
	require.NoError(t, regErr)
	assert.NotZero(t, spy.RecordCount(), "the wrapped handlers log")
}

// Test_Service_Random_Interleavings_Keep_The_Invariants drives a random mix of operations and checks
// after every step that availability stays within [0, total] and no book has two READY reservations.
func Test_Service_Random_Interleavings_Keep_The_Invariants(t *testing.T) {
	// arrange
	ctx := context.Background()
	env := newTestEnv(t)
	rng := rand.New(rand.NewSource(42))

	bookIDs := []core.BookIDString{"b-1", "b-2", "b-3"}
	patronIDs := []core.PatronIDString{"p-1", "p-2", "p-3", "p-4"}
	env.addBook(t, "b-1", 1)
	env.addBook(t, "b-2", 2)
	env.addBook(t, "b-3", 1)
	env.registerPatrons(t, patronIDs...)

	reservationIDs := make([]core.ReservationIDString, 0)

	// act + assert
	for step := 0; step < 150; step++ {
		patronID := patronIDs[rng.Intn(len(patronIDs))]
		bookID := bookIDs[rng.Intn(len(bookIDs))]

		var err error

		switch rng.Intn(7) {
		case 0, 1:
			_, err = env.service.Borrow(ctx, patronID, bookID, 1+rng.Intn(14))
		case 2:
			_, err = env.service.ReturnBook(ctx, patronID, bookID)
		case 3:
			var reserved service.ReserveResult
			if reserved, err = env.service.Reserve(ctx, patronID, bookID); err == nil {
				reservationIDs = append(reservationIDs, reserved.ReservationID)
			}
		case 4:
			if len(reservationIDs) > 0 {
				err = env.service.CancelReservation(ctx, patronID, reservationIDs[rng.Intn(len(reservationIDs))])
			}
		case 5:
			env.clock.Advance(time.Duration(rng.Intn(48)) * time.Hour)
			_, err = env.service.RunExpirySweep(ctx)
		case 6:
			account, accountErr := env.service.PatronAccount(ctx, patronID)
			require.NoError(t, accountErr)

			if account.Fines.IsPositive() {
				_, err = env.service.PayFine(ctx, patronID, account.Fines, core.PaymentOnline, "")
			}
		}

		if err != nil {
			require.True(t, core.IsBusinessError(err), "step %d: unexpected error %v", step, err)
		}

		assertInvariants(t, env, bookIDs, step)
	}
}

func assertInvariants(t *testing.T, env testEnv, bookIDs []core.BookIDString, step int) {
	t.Helper()

	history := fixtures.History(t, env.store)

	for _, bookID := range bookIDs {
		book := catalog.Project(history, bookID)
		available := book.AvailableCopies()
		require.GreaterOrEqual(t, available, 0, fmt.Sprintf("step %d: %s", step, bookID))
		require.LessOrEqual(t, available, book.TotalCopies, fmt.Sprintf("step %d: %s", step, bookID))

		ready := 0

		for _, reservation := range queue.Project(history, bookID).All() {
			if reservation.State == core.ReservationStateReady {
				ready++
			}
		}

		require.LessOrEqual(t, ready, 1, fmt.Sprintf("step %d: %s has %d READY reservations", step, bookID, ready))
	}
}
