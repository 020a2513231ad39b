package payfine

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
)

// Decide implements the business logic of paying fines.
//
// Business Rules:
//
//	GIVEN: a registered patron with outstanding fines
//	WHEN: PayFine command is received
//	THEN: FinePaid
//	ERROR: NotFound if the patron is not registered
//	ERROR: InvalidInput if the method is unknown, the amount is not positive, or it exceeds the fines
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := patron.Project(history, command.PatronID)

	if !account.Registered {
		return core.ErrorDecision(fmt.Errorf("%w: patron %s", core.ErrNotFound, command.PatronID))
	}

	if !core.IsKnownPaymentMethod(command.Method) {
		return core.ErrorDecision(fmt.Errorf("%w: unknown payment method %q", core.ErrInvalidInput, command.Method))
	}

	if !command.Amount.IsPositive() {
		return core.ErrorDecision(fmt.Errorf("%w: amount must be positive, got %s", core.ErrInvalidInput, command.Amount))
	}

	if command.Amount > account.Fines {
		return core.ErrorDecision(fmt.Errorf(
			"%w: amount %s exceeds outstanding fines %s", core.ErrInvalidInput, command.Amount, account.Fines,
		))
	}

	return core.SuccessDecision(core.BuildFinePaid(
		command.PatronID, command.Amount, command.Method, command.ExternalTransactionID, command.OccurredAt,
	))
}

// BuildEventFilter creates the consistency boundary of a payment: all events of the patron.
func BuildEventFilter(patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("PatronID", patronID)).
		Finalize()
}
