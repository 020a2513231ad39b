package registerpatron

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/patron"
)

// Decide implements the business logic of registering a patron.
//
// Business Rules:
//
//	GIVEN: a PatronID
//	WHEN: RegisterPatron command is received
//	THEN: PatronRegistered
//	IDEMPOTENT: if the patron is already registered
//	ERROR: InvalidInput if the PatronID is empty or the tier is unknown
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.PatronID == "" {
		return core.ErrorDecision(fmt.Errorf("%w: patron id is empty", core.ErrInvalidInput))
	}

	if !core.IsKnownTier(command.Tier) {
		return core.ErrorDecision(fmt.Errorf("%w: unknown membership tier %q", core.ErrInvalidInput, command.Tier))
	}

	if patron.Project(history, command.PatronID).Registered {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildPatronRegistered(command.PatronID, command.Name, command.Tier, command.OccurredAt))
}

// BuildEventFilter selects the registration of the patron.
func BuildEventFilter(patronID core.PatronIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.PatronRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("PatronID", patronID)).
		Finalize()
}
