package ledgerhistory

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

// Handle reads one page of the patron's ledger.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LedgerHistory, error) {
	if err := Validate(query); err != nil {
		return LedgerHistory{}, err
	}

	storableEvents, _, err := h.eventStore.Query(ctx, BuildEventFilter(query))
	if err != nil {
		return LedgerHistory{}, shell.TranslateStoreError(err)
	}

	history, err := shell.SequencedEventsFrom(storableEvents)
	if err != nil {
		return LedgerHistory{}, err
	}

	return Project(history, query), nil
}
