package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/clock"
	"github.com/AntonStoeckl/library-lending-go/lending/coordination"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/expirereservation"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/loansduesoon"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/readyreservations"
	"github.com/AntonStoeckl/library-lending-go/lending/notification"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

const (
	DefaultInterval      = 5 * time.Minute
	DefaultDueSoonWindow = 48 * time.Hour

	expiryLockName  = "expiry-sweep"
	dueSoonLockName = "due-soon"

	logMsgSweepSkipped       = "expiry sweep skipped, another instance holds the lock"
	logMsgSweepFinished      = "expiry sweep finished"
	logMsgExpiryFailed       = "expiring reservation failed"
	logMsgDueSoonFinished    = "due soon reminders sent"
	logMsgDueSoonDedupFailed = "due soon deduplication failed"
	logMsgRunFailed          = "background run failed"

	logAttrReservationID = "reservation_id"
	logAttrBookID        = "book_id"
	logAttrPatronID      = "patron_id"
	logAttrExpired       = "expired"
	logAttrPromoted      = "promoted"
	logAttrFailed        = "failed"
	logAttrNotified      = "notified"
	logAttrError         = "error"
)

// Result counts what one expiry sweep did. Skipped is set if another instance held the sweep lock.
type Result struct {
	Expired  int
	Promoted int
	Failed   int
	Skipped  bool
}

// Sweeper runs the expiry sweep and the due-soon reminders.
type Sweeper struct {
	readyReservations shell.QueryHandler[readyreservations.Query, readyreservations.ReadyReservations]
	expireReservation shell.CommandHandler[expirereservation.Command, expirereservation.Result]
	loansDueSoon      shell.QueryHandler[loansduesoon.Query, loansduesoon.LoansDueSoon]

	clock         clock.Clock
	notifier      notification.Notifier
	locker        coordination.Locker
	deduper       coordination.Deduper
	logger        *slog.Logger
	interval      time.Duration
	dueSoonWindow time.Duration
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithClock sets the clock that decides which holds ran out.
func WithClock(c clock.Clock) Option {
	return func(s *Sweeper) { s.clock = c }
}

// WithNotifier sets where promotions and reminders go.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Sweeper) { s.notifier = n }
}

// WithLocker makes the Sweeper take a lock per run, so only one instance runs it.
func WithLocker(l coordination.Locker) Option {
	return func(s *Sweeper) { s.locker = l }
}

// WithDeduper sets where sent reminders are remembered.
func WithDeduper(d coordination.Deduper) Option {
	return func(s *Sweeper) { s.deduper = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = l }
}

// WithInterval sets the tick of Run.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithDueSoonWindow sets how far ahead the reminders look.
func WithDueSoonWindow(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.dueSoonWindow = d
		}
	}
}

// New creates a Sweeper.
func New(
	readyReservations shell.QueryHandler[readyreservations.Query, readyreservations.ReadyReservations],
	expireReservation shell.CommandHandler[expirereservation.Command, expirereservation.Result],
	loansDueSoon shell.QueryHandler[loansduesoon.Query, loansduesoon.LoansDueSoon],
	opts ...Option,
) *Sweeper {

	s := &Sweeper{
		readyReservations: readyReservations,
		expireReservation: expireReservation,
		loansDueSoon:      loansDueSoon,
		clock:             clock.NewSystem(),
		notifier:          notification.Discard{},
		deduper:           coordination.NewMemoryDeduper(),
		logger:            slog.Default(),
		interval:          DefaultInterval,
		dueSoonWindow:     DefaultDueSoonWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RunOnce expires every READY reservation whose hold ran out.
// A failing reservation is logged and counted and does not stop the sweep.
// Only a failing candidate query or the end of ctx make RunOnce return an error.
func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	unlock, acquired, err := s.lock(ctx, expiryLockName)
	if err != nil {
		return Result{}, err
	}

	if !acquired {
		s.logger.InfoContext(ctx, logMsgSweepSkipped)

		return Result{Skipped: true}, nil
	}

	defer unlock(ctx)

	now := s.clock.Now()

	candidates, err := s.readyReservations.Handle(ctx, readyreservations.BuildQuery(now))
	if err != nil {
		return Result{}, fmt.Errorf("finding expired reservations: %w", err)
	}

	result := Result{}

	for _, reservation := range candidates.Reservations {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		command := expirereservation.BuildCommand(reservation.ID, reservation.BookID, reservation.PatronID, now)

		expired, err := s.expireReservation.Handle(ctx, command)
		if err != nil {
			result.Failed++
			s.logger.WarnContext(ctx, logMsgExpiryFailed,
				logAttrReservationID, reservation.ID,
				logAttrBookID, reservation.BookID,
				logAttrError, err.Error(),
			)

			continue
		}

		if !expired.Expired {
			continue
		}

		result.Expired++

		for _, promoted := range expired.Promoted {
			result.Promoted++
			s.notifier.Notify(notification.ReservationReady(promoted))
		}
	}

	s.logger.InfoContext(ctx, logMsgSweepFinished,
		logAttrExpired, result.Expired,
		logAttrPromoted, result.Promoted,
		logAttrFailed, result.Failed,
	)

	return result, nil
}

// RunDueSoon reminds the patrons of loans due within the window and returns how many reminders went out.
// Each (patron, book, due date) is reminded once, as long as the Deduper remembers it.
func (s *Sweeper) RunDueSoon(ctx context.Context) (int, error) {
	unlock, acquired, err := s.lock(ctx, dueSoonLockName)
	if err != nil || !acquired {
		return 0, err
	}

	defer unlock(ctx)

	now := s.clock.Now()

	due, err := s.loansDueSoon.Handle(ctx, loansduesoon.BuildQuery(now, s.dueSoonWindow))
	if err != nil {
		return 0, fmt.Errorf("finding loans due soon: %w", err)
	}

	notified := 0

	for _, loan := range due.Loans {
		key := fmt.Sprintf("%s/%s/%d", loan.PatronID, loan.BookID, loan.DueAt.Unix())

		firstSeen, err := s.deduper.FirstSeen(ctx, key, s.dueSoonWindow+24*time.Hour)
		if err != nil {
			s.logger.WarnContext(ctx, logMsgDueSoonDedupFailed, logAttrPatronID, loan.PatronID, logAttrError, err.Error())

			continue
		}

		if !firstSeen {
			continue
		}

		if s.notifier.Notify(notification.LoanDueSoon(loan.PatronID, loan.BookID, loan.DueAt, now)) {
			notified++
		}
	}

	s.logger.InfoContext(ctx, logMsgDueSoonFinished, logAttrNotified, notified)

	return notified, nil
}

// Run sweeps and sends reminders right away and then on every tick until ctx ends.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.ErrorContext(ctx, logMsgRunFailed, logAttrError, err.Error())
	}

	if _, err := s.RunDueSoon(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.ErrorContext(ctx, logMsgRunFailed, logAttrError, err.Error())
	}
}

func (s *Sweeper) lock(ctx context.Context, name string) (coordination.Unlock, bool, error) {
	if s.locker == nil {
		return func(context.Context) error { return nil }, true, nil
	}

	unlock, acquired, err := s.locker.TryLock(ctx, name, s.interval)
	if err != nil {
		return nil, false, err
	}

	return unlock, acquired, nil
}
