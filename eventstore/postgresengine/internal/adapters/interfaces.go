package adapters

import "context"

// AdvisoryLockSQL takes a transaction scoped advisory lock on a text key.
// The lock is released on commit or rollback.
const AdvisoryLockSQL = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

// DBAdapter defines the interface for database operations needed by the event store.
type DBAdapter interface {
	// Query runs a read-only statement.
	Query(ctx context.Context, query string) (DBRows, error)

	// ExecWithLocks runs query in its own transaction after taking an advisory lock per lockKey
	// (in the given order) and returns the number of affected rows.
	ExecWithLocks(ctx context.Context, lockKeys []string, query string) (int64, error)

	// Exec runs a statement outside an explicit transaction, e.g. schema migrations.
	Exec(ctx context.Context, query string) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}
