package payfine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// Result reports the fines left after the payment.
type Result struct {
	shell.HandlerResult
	RemainingFines core.Money
}

// CommandHandler runs Query, Unmarshal, Decide, and Append with retry.
type CommandHandler struct {
	eventStore   shell.EventStore
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
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the payment with retry on concurrency conflicts and transient store failures.
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
	filter := BuildEventFilter(command.PatronID)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Result{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Result{}, err
	}

	decision := Decide(history, command)
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

	return Result{RemainingFines: patron.Project(append(history, decision.Events...), command.PatronID).Fines}, nil
}
