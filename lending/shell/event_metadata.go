package shell

import (
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
)

var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// EventMetadata links the events of one lending transition.
// CorrelationID is shared by all of them, CausationID points at the message that produced the event.
type EventMetadata struct {
	MessageID     string
	CausationID   string
	CorrelationID string
}

// metadataChain hands out the metadata of consecutive events in one transition.
type metadataChain struct {
	correlationID string
	causationID   string
}

func newMetadataChain(commandID uuid.UUID) *metadataChain {
	return &metadataChain{correlationID: commandID.String(), causationID: commandID.String()}
}

func (c *metadataChain) next() EventMetadata {
	metadata := EventMetadata{
		MessageID:     uuid.NewString(),
		CausationID:   c.causationID,
		CorrelationID: c.correlationID,
	}
	c.causationID = metadata.MessageID

	return metadata
}

// EventMetadataFrom reads the metadata back from a stored event.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	var metadata EventMetadata

	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, &metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return metadata, nil
}
