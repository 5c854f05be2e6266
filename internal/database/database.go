// Package database contains the logic for establishing connections to
// the configured database backend.
//
// The core of this template is a connection-strategy selector: the
// DATABASE.DRIVER key picks one of three strategies (sqlite, postgres,
// mysql). Each strategy knows how to build its DSN, how to tune the
// connection pool, and which migration driver to use; everything above
// this package talks to a single *sqlx.DB regardless of the backend.
//
// It handles:
//   - dispatching by driver key to a Strategy (strategy.go)
//   - opening the pool and pinging it with a timeout
//   - a "SELECT 1" connection validation round trip
//   - wiring query tracing/logging on postgres (pgx tracelog)
//   - optional New Relic instrumentation (nrpgx5)
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
)

// DatabasePingTimeout is the number of seconds to wait for the startup
// ping before considering the database unreachable.
const DatabasePingTimeout = 10

// Database wraps the shared connection pool, the active strategy and a
// logger. It is the object passed around the app.
type Database struct {
	DB *sqlx.DB

	strategy Strategy
	log      *zerolog.Logger
}

// New creates a database connection pool for the configured driver.
//
// Behavior:
//   - Select the strategy for cfg.Database.Driver
//   - Open a *sqlx.DB with the strategy's DSN
//   - Apply pool tuning / session configuration
//   - Ping with a timeout so startup fails fast if the DB is down
//   - Run a SELECT 1 round trip to validate the connection end to end
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Database, error) {
	strategy, err := ForDriver(cfg, logger, loggerService)
	if err != nil {
		return nil, err
	}

	driverName, dsn, err := strategy.DSN()
	if err != nil {
		return nil, fmt.Errorf("building %s dsn: %w", strategy.Name(), err)
	}

	// Open is lazy: no connection is made until first use.
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection pool: %w", strategy.Name(), err)
	}

	if err := strategy.Configure(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring %s connection pool: %w", strategy.Name(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := validateConnection(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to validate %s connection: %w", strategy.Name(), err)
	}

	logger.Info().
		Str("driver", strategy.Name()).
		Str("dsn", strategy.LogSafeDSN()).
		Msg("connected to the database")

	return &Database{
		DB:       db,
		strategy: strategy,
		log:      logger,
	}, nil
}

// validateConnection runs a full query round trip. Ping only checks the
// transport; SELECT 1 proves the session can actually execute SQL.
func validateConnection(ctx context.Context, db *sqlx.DB) error {
	var one int
	if err := db.QueryRowxContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected SELECT 1 result: %d", one)
	}
	return nil
}

// DriverName reports the active strategy key (sqlite/postgres/mysql).
func (db *Database) DriverName() string {
	return db.strategy.Name()
}

// Close closes the database connection pool.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.DB.Close()
}
