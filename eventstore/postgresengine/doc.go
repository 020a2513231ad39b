// Package postgresengine provides the PostgreSQL engine of the lending ledger.
//
// It supports three database adapters (pgxpool, sql.DB with lib/pq, sqlx).
// Appends run in a READ COMMITTED transaction that first takes one advisory lock per predicate
// value of the filter (sorted, so concurrent appends never deadlock) and then inserts with a
// CTE that compares the current max sequence number of the filter with the expected one.
// Two borrowers racing for the last copy of a book therefore contend on the same lock,
// and the second one gets eventstore.ErrConcurrencyConflict.
//
// Usage:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithLogger(slog.Default()),
//	)
//	_ = store.Migrate(ctx)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvents...)
package postgresengine
