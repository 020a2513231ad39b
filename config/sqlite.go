package config

import (
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/eventstore/sqliteengine"
)

// OpenSQLite opens the SQLite database at path, or a private in-memory database for "" and ":memory:".
func OpenSQLite(path string) (*sqlx.DB, error) {
	return sqliteengine.Open(path)
}
