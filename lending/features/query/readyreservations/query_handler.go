package readyreservations

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

// Handle projects the READY reservations.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ReadyReservations, error) {
	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter())
	if err != nil {
		return ReadyReservations{}, shell.TranslateStoreError(err)
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return ReadyReservations{}, err
	}

	return Project(history, query, maxSequenceNumber), nil
}
