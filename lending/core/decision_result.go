package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(event, more...), or ErrorDecision(err).
//
// A successful decision may produce several events, e.g. a BookReturned followed by the
// ReservationBecameReady of the promoted reservation. They are appended in one atomic unit.
// Business rule violations produce no events at all.
type DecisionResult struct {
	Outcome string
	Events  DomainEvents
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision creates a DecisionResult with one or more events to append, in order.
func SuccessDecision(event DomainEvent, more ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Events:  append(DomainEvents{event}, more...),
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasEventsToAppend returns true if there are events to append to the event store.
func (r DecisionResult) HasEventsToAppend() bool {
	return r.Outcome == successOutcome && len(r.Events) > 0
}

// IsIdempotent returns true if the command was already applied.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
