package adapters

import (
	"context"
	"database/sql"
)

// SQLAdapter implements DBAdapter for sql.DB
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

func (s *SQLAdapter) ExecWithLocks(ctx context.Context, lockKeys []string, query string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return 0, err
	}

	return execWithLocksInTx(ctx, tx, lockKeys, query)
}

func (s *SQLAdapter) Exec(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)

	return err
}

// execWithLocksInTx is shared by the database/sql based adapters. It always ends the transaction.
func execWithLocksInTx(ctx context.Context, tx *sql.Tx, lockKeys []string, query string) (int64, error) {
	defer func() { _ = tx.Rollback() }() // no-op after a successful commit

	for _, key := range lockKeys {
		if _, err := tx.ExecContext(ctx, AdvisoryLockSQL, key); err != nil {
			return 0, err
		}
	}

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return rowsAffected, nil
}

// stdRows wraps standard library sql.Rows to implement DBRows interface.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}
