package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

// QueriesEvents is the read side of the event store, used by query handlers.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is the part of the event store that command handlers need.
// Both sqliteengine.EventStore and postgresengine.EventStore satisfy it.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by all command types.
type Command interface {
	CommandType() string
}

// Query is implemented by all query types.
type Query interface {
	QueryType() string
}

// Outcome is implemented by all command handler results, usually by embedding HandlerResult.
type Outcome interface {
	Outcome() HandlerResult
}

// CommandHandler is the contract the observable command wrapper decorates.
type CommandHandler[C Command, R Outcome] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// QueryHandler is the contract the observable query wrapper decorates.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
