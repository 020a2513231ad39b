// Package adapters lets the PostgreSQL engine run on a pgxpool.Pool, a *sql.DB, or a *sqlx.DB.
//
// Each adapter exposes the same small DBAdapter surface: a query that returns rows,
// and a transaction that can take the advisory lock and insert conditionally.
// Which one lendingd uses is chosen with DB_ADAPTER.
package adapters
