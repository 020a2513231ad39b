package service

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/expirereservation"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/payfine"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/registerpatron"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/bookavailability"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/ledgerhistory"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/loansduesoon"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/patronaccount"
	"github.com/AntonStoeckl/library-lending-go/lending/features/query/readyreservations"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/observable"
)

// Observability holds the optional collaborators the handlers are wrapped with.
// A zero Observability leaves the handlers unwrapped.
type Observability struct {
	MetricsCollector shell.MetricsCollector
	TracingCollector shell.TracingCollector
	Logger           shell.Logger
	ContextualLogger shell.ContextualLogger
}

func (o Observability) enabled() bool {
	return o.MetricsCollector != nil || o.TracingCollector != nil || o.Logger != nil || o.ContextualLogger != nil
}

// Handlers contains all command and query handlers of the lending system.
type Handlers struct {
	// Command handlers.
	Borrow            shell.CommandHandler[borrowbook.Command, borrowbook.Result]
	Return            shell.CommandHandler[returnbook.Command, returnbook.Result]
	Reserve           shell.CommandHandler[reservebook.Command, reservebook.Result]
	CancelReservation shell.CommandHandler[cancelreservation.Command, cancelreservation.Result]
	ExpireReservation shell.CommandHandler[expirereservation.Command, expirereservation.Result]
	AddBookCopies     shell.CommandHandler[addbookcopies.Command, addbookcopies.Result]
	RegisterPatron    shell.CommandHandler[registerpatron.Command, registerpatron.Result]
	PayFine           shell.CommandHandler[payfine.Command, payfine.Result]

	// Query handlers.
	BookAvailability  shell.QueryHandler[bookavailability.Query, bookavailability.BookAvailability]
	PatronAccount     shell.QueryHandler[patronaccount.Query, patronaccount.PatronAccount]
	LedgerHistory     shell.QueryHandler[ledgerhistory.Query, ledgerhistory.LedgerHistory]
	ReadyReservations shell.QueryHandler[readyreservations.Query, readyreservations.ReadyReservations]
	LoansDueSoon      shell.QueryHandler[loansduesoon.Query, loansduesoon.LoansDueSoon]
}

// NewHandlers creates all handlers on the event store, wrapped with observability if it is configured.
func NewHandlers(
	eventStore shell.EventStore,
	policy core.Policy,
	obs Observability,
	retryOptions ...shell.RetryOption,
) (Handlers, error) {

	var (
		handlers Handlers
		err      error
	)

	if handlers.Borrow, err = wrapCommand[borrowbook.Command, borrowbook.Result](
		borrowbook.NewCommandHandler(eventStore, policy, borrowbook.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create Borrow handler: %w", err)
	}

	if handlers.Return, err = wrapCommand[returnbook.Command, returnbook.Result](
		returnbook.NewCommandHandler(eventStore, policy, returnbook.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create Return handler: %w", err)
	}

	if handlers.Reserve, err = wrapCommand[reservebook.Command, reservebook.Result](
		reservebook.NewCommandHandler(eventStore, policy, reservebook.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create Reserve handler: %w", err)
	}

	if handlers.CancelReservation, err = wrapCommand[cancelreservation.Command, cancelreservation.Result](
		cancelreservation.NewCommandHandler(eventStore, policy, cancelreservation.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create CancelReservation handler: %w", err)
	}

	if handlers.ExpireReservation, err = wrapCommand[expirereservation.Command, expirereservation.Result](
		expirereservation.NewCommandHandler(eventStore, policy, expirereservation.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create ExpireReservation handler: %w", err)
	}

	if handlers.AddBookCopies, err = wrapCommand[addbookcopies.Command, addbookcopies.Result](
		addbookcopies.NewCommandHandler(eventStore, policy, addbookcopies.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create AddBookCopies handler: %w", err)
	}

	if handlers.RegisterPatron, err = wrapCommand[registerpatron.Command, registerpatron.Result](
		registerpatron.NewCommandHandler(eventStore, registerpatron.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create RegisterPatron handler: %w", err)
	}

	if handlers.PayFine, err = wrapCommand[payfine.Command, payfine.Result](
		payfine.NewCommandHandler(eventStore, payfine.WithRetryOptions(retryOptions...)), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create PayFine handler: %w", err)
	}

	if handlers.BookAvailability, err = wrapQuery[bookavailability.Query, bookavailability.BookAvailability](
		bookavailability.NewQueryHandler(eventStore), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create BookAvailability handler: %w", err)
	}

	if handlers.PatronAccount, err = wrapQuery[patronaccount.Query, patronaccount.PatronAccount](
		patronaccount.NewQueryHandler(eventStore), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create PatronAccount handler: %w", err)
	}

	if handlers.LedgerHistory, err = wrapQuery[ledgerhistory.Query, ledgerhistory.LedgerHistory](
		ledgerhistory.NewQueryHandler(eventStore), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create LedgerHistory handler: %w", err)
	}

	if handlers.ReadyReservations, err = wrapQuery[readyreservations.Query, readyreservations.ReadyReservations](
		readyreservations.NewQueryHandler(eventStore), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create ReadyReservations handler: %w", err)
	}

	if handlers.LoansDueSoon, err = wrapQuery[loansduesoon.Query, loansduesoon.LoansDueSoon](
		loansduesoon.NewQueryHandler(eventStore), obs); err != nil {
		return Handlers{}, fmt.Errorf("failed to create LoansDueSoon handler: %w", err)
	}

	return handlers, nil
}

func wrapCommand[C shell.Command, R shell.Outcome](
	handler shell.CommandHandler[C, R],
	obs Observability,
) (shell.CommandHandler[C, R], error) {

	if !obs.enabled() {
		return handler, nil
	}

	opts := make([]observable.CommandOption[C, R], 0, 4)

	if obs.MetricsCollector != nil {
		opts = append(opts, observable.WithCommandMetrics[C, R](obs.MetricsCollector))
	}

	if obs.TracingCollector != nil {
		opts = append(opts, observable.WithCommandTracing[C, R](obs.TracingCollector))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithCommandLogging[C, R](obs.Logger))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C, R](obs.ContextualLogger))
	}

	wrapper, err := observable.NewCommandWrapper(handler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}

func wrapQuery[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	obs Observability,
) (shell.QueryHandler[Q, R], error) {

	if !obs.enabled() {
		return handler, nil
	}

	opts := make([]observable.QueryOption[Q, R], 0, 4)

	if obs.MetricsCollector != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](obs.MetricsCollector))
	}

	if obs.TracingCollector != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](obs.TracingCollector))
	}

	if obs.Logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](obs.Logger))
	}

	if obs.ContextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](obs.ContextualLogger))
	}

	wrapper, err := observable.NewQueryWrapper(handler, opts...)
	if err != nil {
		return nil, err
	}

	return wrapper, nil
}
