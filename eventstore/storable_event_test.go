package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_BuildStorableEvent_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"BookID": "b-1"}`)
	validMetadataJSON := []byte(`{"MessageID": "m-1"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{name: "invalid payload JSON", payloadJSON: []byte(`{"invalid": json}`), metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "invalid metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: []byte(`{"invalid": json}`), expectedErr: ErrInvalidMetadataJSON},
		{name: "empty payload JSON", payloadJSON: []byte(``), metadataJSON: validMetadataJSON, expectedErr: ErrInvalidPayloadJSON},
		{name: "nil metadata JSON", payloadJSON: validPayloadJSON, metadataJSON: nil, expectedErr: ErrInvalidMetadataJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildStorableEvent("BookBorrowed", validTime, tt.payloadJSON, tt.metadataJSON)

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_Success(t *testing.T) {
	occurredAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	event, err := BuildStorableEvent("BookBorrowed", occurredAt, []byte(`{"BookID":"b-1"}`), []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, "BookBorrowed", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{"BookID":"b-1"}`, string(event.PayloadJSON))
	assert.Zero(t, event.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	event, err := BuildStorableEventWithEmptyMetadata("FinePaid", time.Now(), []byte(`{"PatronID":"p-1"}`))

	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}
