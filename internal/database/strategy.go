package database

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
)

// Strategy abstracts a database backend behind the operations the rest
// of the app needs. Each supported driver implements it once; nothing
// outside this package switches on the driver key.
type Strategy interface {
	// Name returns the canonical driver key (sqlite, postgres, mysql).
	Name() string

	// DSN returns the database/sql driver name and the data source
	// string to open it with.
	DSN() (driverName string, dsn string, err error)

	// LogSafeDSN returns a DSN representation with credentials masked,
	// safe to write into logs.
	LogSafeDSN() string

	// Configure applies pool tuning and driver-specific session setup
	// (pragmas, charsets) to a freshly opened pool.
	Configure(db *sqlx.DB) error

	// MigrationDriver wraps an open connection into the golang-migrate
	// database driver for this backend.
	MigrationDriver(db *sql.DB) (migratedb.Driver, error)
}

// strategyFactory builds a Strategy from config. The logger service is
// optional; it is only used by the postgres strategy for tracing.
type strategyFactory func(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (Strategy, error)

// strategies is the dispatch table of the selector: driver key to
// constructor. Registering a new backend means adding one entry here
// plus its Strategy implementation and migration directory.
var strategies = map[string]strategyFactory{
	config.DriverSQLite:   newSQLiteStrategy,
	config.DriverPostgres: newPostgresStrategy,
	config.DriverMySQL:    newMySQLStrategy,
}

// ForDriver selects and constructs the Strategy for the configured
// driver key. Unknown keys produce an error listing the supported ones.
func ForDriver(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (Strategy, error) {
	factory, ok := strategies[cfg.Database.Driver]
	if !ok {
		available := make([]string, 0, len(strategies))
		for key := range strategies {
			available = append(available, key)
		}
		sort.Strings(available)
		return nil, fmt.Errorf("unsupported database driver: %q (available: %s)",
			cfg.Database.Driver, strings.Join(available, ", "))
	}
	return factory(cfg, logger, loggerService)
}

// applyPoolSettings maps the config pool block onto database/sql
// tuning. Lifetimes are stored as whole seconds in config.
func applyPoolSettings(db *sqlx.DB, cfg *config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(secondsDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(secondsDuration(cfg.ConnMaxIdleTime))
}

func secondsDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
