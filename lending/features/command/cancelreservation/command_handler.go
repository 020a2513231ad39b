package cancelreservation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// Result is what a successful cancellation reports back.
type Result struct {
	shell.HandlerResult
	WasReady bool
	Promoted []core.ReservationBecameReady
}

// CommandHandler locates the reservation, then runs Query, Unmarshal, Decide, and Append with retry.
type CommandHandler struct {
	eventStore   shell.EventStore
	policy       core.Policy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, policy core.Policy, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		policy:     policy,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the cancellation with retry on concurrency conflicts and transient store failures.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var result Result

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, shell.TranslateStoreError(err)
	}

	result.HandlerResult = shell.NewSuccessResult(retryMetrics)

	return result, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Result, error) {
	located, _, err := h.eventStore.Query(ctx, BuildLocateFilter(command.ReservationID))
	if err != nil {
		return Result{}, err
	}

	if len(located) == 0 {
		return Result{}, fmt.Errorf("%w: reservation %s", core.ErrNotFound, command.ReservationID)
	}

	locatedEvents, err := shell.DomainEventsFrom(located)
	if err != nil {
		return Result{}, err
	}

	bookID, _ := BookOf(locatedEvents, command.ReservationID, command.PatronID)
	filter := BuildEventFilter(bookID, command.PatronID)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Result{}, err
	}

	decision := Decide(history, command, h.policy)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, decisionErr
	}

	toAppend, err := shell.StorableEventsFrom(decision.Events, uuid.New())
	if err != nil {
		return Result{}, err
	}

	if err := h.eventStore.Append(ctx, filter, maxSequenceNumber, toAppend...); err != nil {
		return Result{}, err
	}

	result := Result{}

	for _, event := range decision.Events {
		switch e := event.(type) {
		case core.ReservationCancelled:
			result.WasReady = e.WasReady
		case core.ReservationBecameReady:
			result.Promoted = append(result.Promoted, e)
		}
	}

	return result, nil
}
