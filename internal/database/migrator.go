package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
)

// Embed the per-dialect SQL migrations at compile time, so the binary
// carries its schema and does not depend on the filesystem at runtime.
// Each driver has its own directory because the dialects disagree on
// types (UUID vs CHAR(36), TIMESTAMPTZ vs DATETIME, ...).
//
//go:embed migrations
var migrations embed.FS

// Migrate creates or updates the database schema for the configured
// driver using golang-migrate.
//
// Behavior:
//   - Select the strategy and open a dedicated connection (not the
//     app pool; migrations are a one-time action)
//   - Load the embedded migrations for the strategy's dialect
//   - Apply everything up to the latest version
//   - Log whether the schema was already up to date or migrated
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	strategy, err := ForDriver(cfg, logger, nil)
	if err != nil {
		return err
	}

	driverName, dsn, err := strategy.DSN()
	if err != nil {
		return fmt.Errorf("building %s dsn: %w", strategy.Name(), err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database before migration: %w", err)
	}

	dbDriver, err := strategy.MigrationDriver(db)
	if err != nil {
		return fmt.Errorf("constructing %s migration driver: %w", strategy.Name(), err)
	}

	src, err := iofs.New(migrations, "migrations/"+strategy.Name())
	if err != nil {
		return fmt.Errorf("loading embedded migrations for %s: %w", strategy.Name(), err)
	}

	m, err := migrate.NewWithInstance("iofs", src, strategy.Name(), dbDriver)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("retrieving current migration version: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info().
				Str("driver", strategy.Name()).
				Uint("version", from).
				Msg("database schema up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("retrieving migrated version: %w", err)
	}

	logger.Info().
		Str("driver", strategy.Name()).
		Uint("from", from).
		Uint("to", to).
		Msg("migrated database schema")

	return nil
}
