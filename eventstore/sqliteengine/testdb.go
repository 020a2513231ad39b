package sqliteengine

import (
	"context"
	"testing"
)

// NewTestEventStore creates a fresh in-memory event store with the schema applied.
// The database is closed when the test finishes.
func NewTestEventStore(t testing.TB, options ...Option) EventStore {
	t.Helper()

	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	es, err := NewEventStore(db, options...)
	if err != nil {
		t.Fatalf("creating test event store: %v", err)
	}

	if err := es.Migrate(context.Background()); err != nil {
		t.Fatalf("creating test database schema: %v", err)
	}

	return es
}
