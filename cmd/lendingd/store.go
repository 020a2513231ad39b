package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending-go/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// migratingEventStore is what both engines offer to lendingd.
type migratingEventStore interface {
	shell.EventStore
	Migrate(ctx context.Context) error
}

// openedStore is an event store together with the function that releases its connections.
type openedStore struct {
	migratingEventStore
	close func()
}

// storeObservability holds the optional engine collaborators. Nil fields are left out.
type storeObservability struct {
	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metrics          eventstore.MetricsCollector
}

// openStore connects to the configured database, retrying with backoff, and builds the event store on it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger, obs storeObservability) (openedStore, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return openPostgresStore(ctx, cfg, logger, obs)
	case config.DriverSQLite:
		return openSQLiteStore(ctx, cfg, logger, obs)
	default:
		return openedStore{}, fmt.Errorf("%w: unknown DB_DRIVER %q", config.ErrInvalidConfig, cfg.DBDriver)
	}
}

func openSQLiteStore(ctx context.Context, cfg config.Config, logger *slog.Logger, obs storeObservability) (openedStore, error) {
	var db *sqlx.DB

	err := config.ConnectWithRetry(ctx, logger, cfg.DBConnectAttempts, cfg.DBConnectBaseDelay, func(ctx context.Context) error {
		opened, err := config.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}

		if err := opened.PingContext(ctx); err != nil {
			_ = opened.Close()
			return err
		}

		db = opened

		return nil
	})
	if err != nil {
		return openedStore{}, err
	}

	var options []sqliteengine.Option
	if obs.logger != nil {
		options = append(options, sqliteengine.WithLogger(obs.logger))
	}
	if obs.metrics != nil {
		options = append(options, sqliteengine.WithMetrics(obs.metrics))
	}

	es, err := sqliteengine.NewEventStore(db, options...)
	if err != nil {
		_ = db.Close()
		return openedStore{}, fmt.Errorf("failed to create sqlite event store: %w", err)
	}

	return openedStore{migratingEventStore: es, close: func() { _ = db.Close() }}, nil
}

func openPostgresStore(ctx context.Context, cfg config.Config, logger *slog.Logger, obs storeObservability) (openedStore, error) {
	var options []postgresengine.Option
	if obs.logger != nil {
		options = append(options, postgresengine.WithLogger(obs.logger))
	}
	if obs.contextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obs.contextualLogger))
	}
	if obs.metrics != nil {
		options = append(options, postgresengine.WithMetrics(obs.metrics))
	}

	var (
		es      postgresengine.EventStore
		closeDB func()
	)

	connect := func(ctx context.Context) error {
		switch cfg.DBAdapter {
		case config.AdapterSQLDB:
			db, err := config.OpenPostgresSQLDB(cfg.PostgresDSN)
			if err != nil {
				return err
			}

			if err := pingSQL(ctx, db); err != nil {
				return err
			}

			if es, err = postgresengine.NewEventStoreFromSQLDB(db, options...); err != nil {
				_ = db.Close()
				return err
			}

			closeDB = func() { _ = db.Close() }

		case config.AdapterSQLX:
			db, err := config.OpenPostgresSQLX(cfg.PostgresDSN)
			if err != nil {
				return err
			}

			if err := pingSQL(ctx, db.DB); err != nil {
				return err
			}

			if es, err = postgresengine.NewEventStoreFromSQLX(db, options...); err != nil {
				_ = db.Close()
				return err
			}

			closeDB = func() { _ = db.Close() }

		default:
			poolConfig, err := config.PostgresPGXPoolConfig(cfg.PostgresDSN)
			if err != nil {
				return err
			}

			pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
			if err != nil {
				return fmt.Errorf("failed to create pgx pool: %w", err)
			}

			if err := pool.Ping(ctx); err != nil {
				pool.Close()
				return fmt.Errorf("failed to connect to postgres: %w", err)
			}

			if es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...); err != nil {
				pool.Close()
				return err
			}

			closeDB = pool.Close
		}

		return nil
	}

	if err := config.ConnectWithRetry(ctx, logger, cfg.DBConnectAttempts, cfg.DBConnectBaseDelay, connect); err != nil {
		return openedStore{}, err
	}

	return openedStore{migratingEventStore: es, close: closeDB}, nil
}

// pingSQL closes db if it does not answer.
func pingSQL(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return nil
}
