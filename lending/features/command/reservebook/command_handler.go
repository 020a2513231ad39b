package reservebook

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/queue"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// Result is what a successful reservation reports back. ReadyExpiresAt is zero for PENDING.
type Result struct {
	shell.HandlerResult
	ReservationID  core.ReservationIDString
	State          core.ReservationState
	ReadyExpiresAt time.Time
}

// CommandHandler runs Query, Unmarshal, Decide, and Append with retry.
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

// Handle executes the reservation with retry on concurrency conflicts and transient store failures.
// A repeated reservation id reports the current state of that active reservation as an idempotent result.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	var result Result
	var idempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		result, idempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, shell.TranslateStoreError(err)
	}

	if idempotent {
		result.HandlerResult = shell.NewIdempotentResult(retryMetrics)
	} else {
		result.HandlerResult = shell.NewSuccessResult(retryMetrics)
	}

	return result, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Result, bool, error) {
	filter := BuildEventFilter(command.BookID, command.PatronID, command.ReservationID)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, filter)
	if err != nil {
		return Result{}, false, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return Result{}, false, err
	}

	decision := Decide(history, command, h.policy)
	if decisionErr := decision.HasError(); decisionErr != nil {
		return Result{}, false, decisionErr
	}

	if decision.IsIdempotent() {
		existing, _ := queue.Project(history, command.BookID).Find(command.ReservationID)

		return Result{
			ReservationID:  existing.ID,
			State:          existing.State,
			ReadyExpiresAt: existing.ReadyExpiresAt,
		}, true, nil
	}

	toAppend, err := shell.StorableEventsFrom(decision.Events, uuid.New())
	if err != nil {
		return Result{}, false, err
	}

	if err := h.eventStore.Append(ctx, filter, maxSequenceNumber, toAppend...); err != nil {
		return Result{}, false, err
	}

	reserved := decision.Events[0].(core.BookReserved)

	return Result{
		ReservationID:  reserved.ReservationID,
		State:          reserved.State,
		ReadyExpiresAt: reserved.ReadyExpiresAt,
	}, false, nil
}
