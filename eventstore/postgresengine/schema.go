package postgresengine

import (
	"context"
	"fmt"
)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB NOT NULL,
	metadata JSONB NOT NULL,
	append_timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_occurred_at_idx ON %[1]s (occurred_at);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING gin (payload jsonb_path_ops);
`

// Migrate creates the events table and its indexes if they do not exist yet.
func (es EventStore) Migrate(ctx context.Context) error {
	if err := es.db.Exec(ctx, fmt.Sprintf(schemaTemplate, es.eventTableName)); err != nil {
		return fmt.Errorf("migrating postgres event store: %w", err)
	}

	return nil
}
