package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshal[core.BookAddedToCatalog](storableEvent.PayloadJSON)

	case core.PatronRegisteredEventType:
		return unmarshal[core.PatronRegistered](storableEvent.PayloadJSON)

	case core.BookBorrowedEventType:
		return unmarshal[core.BookBorrowed](storableEvent.PayloadJSON)

	case core.BookReturnedEventType:
		return unmarshal[core.BookReturned](storableEvent.PayloadJSON)

	case core.BookReservedEventType:
		return unmarshal[core.BookReserved](storableEvent.PayloadJSON)

	case core.ReservationBecameReadyEventType:
		return unmarshal[core.ReservationBecameReady](storableEvent.PayloadJSON)

	case core.ReservationCancelledEventType:
		return unmarshal[core.ReservationCancelled](storableEvent.PayloadJSON)

	case core.ReservationExpiredEventType:
		return unmarshal[core.ReservationExpired](storableEvent.PayloadJSON)

	case core.FinePaidEventType:
		return unmarshal[core.FinePaid](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

// SequencedEvent is a domain event together with its position in the store.
type SequencedEvent struct {
	Sequence eventstore.MaxSequenceNumberUint
	Event    core.DomainEvent
}

// SequencedEventsFrom converts StorableEvents returned by a Query and keeps their sequence numbers.
func SequencedEventsFrom(storableEvents eventstore.StorableEvents) ([]SequencedEvent, error) {
	sequenced := make([]SequencedEvent, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		sequenced = append(sequenced, SequencedEvent{Sequence: storableEvent.SequenceNumber, Event: domainEvent})
	}

	return sequenced, nil
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
