package sqliteengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const driverName = "sqlite"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS %[1]s (
		sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
		occurred_at INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		metadata TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type)`,
	`CREATE INDEX IF NOT EXISTS %[1]s_book_idx ON %[1]s (json_extract(payload, '$.BookID'))`,
	`CREATE INDEX IF NOT EXISTS %[1]s_patron_idx ON %[1]s (json_extract(payload, '$.PatronID'))`,
	`CREATE INDEX IF NOT EXISTS %[1]s_reservation_idx ON %[1]s (json_extract(payload, '$.ReservationID'))`,
}

// Open opens a file backed SQLite database for the event store.
// Writers take the database lock at BEGIN, readers wait up to five seconds for a busy database.
func Open(path string) (*sqlx.DB, error) {
	if path == "" || path == ":memory:" {
		return OpenInMemory()
	}

	params := []string{
		"_pragma=busy_timeout(5000)",
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_txlock=immediate",
	}

	db, err := sqlx.Open(driverName, path+"?"+strings.Join(params, "&"))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	return db, nil
}

// OpenInMemory opens a private in-memory database.
// Every connection to ":memory:" is a separate database, so the pool is limited to one connection,
// which also serializes all transactions.
func OpenInMemory() (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return db, nil
}

// Migrate creates the events table and its indexes if they do not exist yet.
func (es EventStore) Migrate(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := es.db.ExecContext(ctx, fmt.Sprintf(statement, es.eventTableName)); err != nil {
			return fmt.Errorf("migrating sqlite event store: %w", err)
		}
	}

	return nil
}
