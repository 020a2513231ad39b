package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending/clock"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/payfine"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerpatron"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/bookavailability"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/ledgerhistory"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/patronaccount"
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
	"github.com/AntonStoeckl/library-lending-go/lending/notification"
	"github.com/AntonStoeckl/library-lending-go/lending/sweeper"
)

// BorrowResult is the outcome of a successful Borrow.
type BorrowResult struct {
	DueAt    time.Time
	FromHold bool
}

// ReturnResult is the outcome of a successful ReturnBook.
type ReturnResult struct {
	LateFee          core.Money
	OutstandingFines core.Money
}

// ReserveResult is the outcome of a successful Reserve. ReadyExpiresAt is zero for PENDING reservations.
type ReserveResult struct {
	ReservationID  core.ReservationIDString
	State          core.ReservationState
	ReadyExpiresAt time.Time
}

// SweepResult is the outcome of one expiry sweep.
type SweepResult struct {
	ExpiredCount  int
	PromotedCount int
	FailedCount   int
}

// LedgerFilter narrows LedgerHistory. Zero values mean no restriction, a zero Limit means the default page size.
type LedgerFilter struct {
	Type   ledger.EntryType
	From   time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// Service is the lending system as seen by its callers.
type Service struct {
	handlers    Handlers
	sweeper     *sweeper.Sweeper
	clock       clock.Clock
	notifier    notification.Notifier
	newID       func() core.ReservationIDString
	sweeperOpts []sweeper.Option
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock that stamps every command and query.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithNotifier sets the collaborator that is signalled when a reservation becomes READY.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithReservationIDs replaces the uuid generator for new reservation ids.
func WithReservationIDs(newID func() core.ReservationIDString) Option {
	return func(s *Service) { s.newID = newID }
}

// WithSweeperOptions passes options to the expiry sweeper, e.g. a Locker or a Deduper.
func WithSweeperOptions(opts ...sweeper.Option) Option {
	return func(s *Service) { s.sweeperOpts = append(s.sweeperOpts, opts...) }
}

// New creates a Service on top of the handlers.
func New(handlers Handlers, opts ...Option) *Service {
	s := &Service{
		handlers: handlers,
		clock:    clock.NewSystem(),
		notifier: notification.Discard{},
		newID:    func() core.ReservationIDString { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	sweeperOpts := append([]sweeper.Option{sweeper.WithClock(s.clock), sweeper.WithNotifier(s.notifier)}, s.sweeperOpts...)
	s.sweeper = sweeper.New(handlers.ReadyReservations, handlers.ExpireReservation, handlers.LoansDueSoon, sweeperOpts...)

	return s
}

// Sweeper returns the expiry sweeper, e.g. to run it periodically.
func (s *Service) Sweeper() *sweeper.Sweeper {
	return s.sweeper
}

// Borrow lends the book to the patron for durationDays, or the default loan duration if durationDays is not positive.
func (s *Service) Borrow(
	ctx context.Context,
	patronID core.PatronIDString,
	bookID core.BookIDString,
	durationDays int,
) (BorrowResult, error) {

	result, err := s.handlers.Borrow.Handle(ctx, borrowbook.BuildCommand(patronID, bookID, durationDays, s.clock.Now()))
	if err != nil {
		return BorrowResult{}, err
	}

	s.notifyPromoted(result.Promoted)

	return BorrowResult{DueAt: result.DueAt, FromHold: result.FromHold}, nil
}

// ReturnBook closes the patron's loan of the book, charges the late fee, and hands the copy to the queue.
func (s *Service) ReturnBook(ctx context.Context, patronID core.PatronIDString, bookID core.BookIDString) (ReturnResult, error) {
	result, err := s.handlers.Return.Handle(ctx, returnbook.BuildCommand(patronID, bookID, s.clock.Now()))
	if err != nil {
		return ReturnResult{}, err
	}

	s.notifyPromoted(result.Promoted)

	return ReturnResult{LateFee: result.LateFee, OutstandingFines: result.OutstandingFines}, nil
}

// Reserve queues the patron for the book with a fresh reservation id.
func (s *Service) Reserve(ctx context.Context, patronID core.PatronIDString, bookID core.BookIDString) (ReserveResult, error) {
	return s.ReserveWithID(ctx, s.newID(), patronID, bookID)
}

// ReserveWithID is Reserve with a caller supplied reservation id. Repeating it with the same id is idempotent.
func (s *Service) ReserveWithID(
	ctx context.Context,
	reservationID core.ReservationIDString,
	patronID core.PatronIDString,
	bookID core.BookIDString,
) (ReserveResult, error) {

	now := s.clock.Now()

	result, err := s.handlers.Reserve.Handle(ctx, reservebook.BuildCommand(reservationID, patronID, bookID, now))
	if err != nil {
		return ReserveResult{}, err
	}

	if result.State == core.ReservationStateReady && !result.Idempotent {
		s.notifier.Notify(notification.Notification{
			Kind:          notification.KindReservationReady,
			PatronID:      patronID,
			BookID:        bookID,
			ReservationID: result.ReservationID,
			Deadline:      result.ReadyExpiresAt,
			CreatedAt:     now,
		})
	}

	return ReserveResult{
		ReservationID:  result.ReservationID,
		State:          result.State,
		ReadyExpiresAt: result.ReadyExpiresAt,
	}, nil
}

// CancelReservation cancels the patron's PENDING or READY reservation.
func (s *Service) CancelReservation(ctx context.Context, patronID core.PatronIDString, reservationID core.ReservationIDString) error {
	result, err := s.handlers.CancelReservation.Handle(ctx, cancelreservation.BuildCommand(patronID, reservationID, s.clock.Now()))
	if err != nil {
		return err
	}

	s.notifyPromoted(result.Promoted)

	return nil
}

// RunExpirySweep expires all READY reservations whose hold ran out and promotes their successors.
func (s *Service) RunExpirySweep(ctx context.Context) (SweepResult, error) {
	result, err := s.sweeper.RunOnce(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	return SweepResult{
		ExpiredCount:  result.Expired,
		PromotedCount: result.Promoted,
		FailedCount:   result.Failed,
	}, nil
}

// AddBookCopies adds copies of a book to the catalog, creating the book on first use.
// It returns the new total number of copies.
func (s *Service) AddBookCopies(
	ctx context.Context,
	bookID core.BookIDString,
	isbn core.ISBNString,
	title string,
	author string,
	copies int,
) (int, error) {

	result, err := s.handlers.AddBookCopies.Handle(ctx, addbookcopies.BuildCommand(bookID, isbn, title, author, copies, s.clock.Now()))
	if err != nil {
		return 0, err
	}

	s.notifyPromoted(result.Promoted)

	return result.TotalCopies, nil
}

// RegisterPatron registers a patron with a membership tier. Registering the same patron again is a no-op.
func (s *Service) RegisterPatron(ctx context.Context, patronID core.PatronIDString, name string, tier core.MembershipTier) error {
	_, err := s.handlers.RegisterPatron.Handle(ctx, registerpatron.BuildCommand(patronID, name, tier, s.clock.Now()))

	return err
}

// PayFine pays (part of) the patron's outstanding fines and returns what is left.
func (s *Service) PayFine(
	ctx context.Context,
	patronID core.PatronIDString,
	amount core.Money,
	method core.PaymentMethod,
	externalTransactionID string,
) (core.Money, error) {

	result, err := s.handlers.PayFine.Handle(ctx, payfine.BuildCommand(patronID, amount, method, externalTransactionID, s.clock.Now()))
	if err != nil {
		return 0, err
	}

	return result.RemainingFines, nil
}

// BookAvailability returns the catalog record, availability, and queue of a book.
func (s *Service) BookAvailability(ctx context.Context, bookID core.BookIDString) (bookavailability.BookAvailability, error) {
	return s.handlers.BookAvailability.Handle(ctx, bookavailability.BuildQuery(bookID))
}

// PatronAccount returns the loans, reservations, and fines of a patron.
func (s *Service) PatronAccount(ctx context.Context, patronID core.PatronIDString) (patronaccount.PatronAccount, error) {
	return s.handlers.PatronAccount.Handle(ctx, patronaccount.BuildQuery(patronID, s.clock.Now()))
}

// LedgerHistory returns one page of the patron's ledger, newest first.
func (s *Service) LedgerHistory(
	ctx context.Context,
	patronID core.PatronIDString,
	filter LedgerFilter,
) (ledgerhistory.LedgerHistory, error) {

	query := ledgerhistory.BuildQuery(patronID, filter.Type, filter.From, filter.Until, filter.Limit, filter.Offset)

	return s.handlers.LedgerHistory.Handle(ctx, query)
}

func (s *Service) notifyPromoted(promoted []core.ReservationBecameReady) {
	for _, event := range promoted {
		s.notifier.Notify(notification.ReservationReady(event))
	}
}
