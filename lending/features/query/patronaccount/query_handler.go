package patronaccount

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// QueryHandler runs Query, Unmarshal, and Project.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler with the provided event store.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle projects the patron's account from their events.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PatronAccount, error) {
	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.PatronID))
	if err != nil {
		return PatronAccount{}, shell.TranslateStoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return PatronAccount{}, err
	}

	return Project(history, query, maxSequenceNumber)
}
