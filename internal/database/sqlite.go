package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
	// Registers the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// sqliteStrategy connects to a SQLite database file through the pure-Go
// modernc driver, so the template builds without cgo.
type sqliteStrategy struct {
	cfg    *config.Config
	logger *zerolog.Logger
	path   string
}

func newSQLiteStrategy(cfg *config.Config, logger *zerolog.Logger, _ *loggerPkg.LoggerService) (Strategy, error) {
	s := &sqliteStrategy{cfg: cfg, logger: logger}
	s.path = s.validatePath(cfg.Database.Path)
	return s, nil
}

func (s *sqliteStrategy) Name() string {
	return config.DriverSQLite
}

// validatePath normalizes the database file location: relative paths
// become absolute and missing parent directories are created. On
// failure it falls back to a file in the working directory rather than
// refusing to boot.
func (s *sqliteStrategy) validatePath(path string) string {
	const fallback = "database.sqlite"

	// ":memory:" and file: URIs pass through untouched; they are mostly
	// used by tests.
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("invalid sqlite path, using fallback")
		return fallback
	}

	if parent := filepath.Dir(abs); parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			s.logger.Error().Err(err).Str("dir", parent).Msg("could not create sqlite directory, using fallback")
			return fallback
		}
	}

	return abs
}

// DSN builds a file: URI with per-connection pragmas:
//   - WAL journal for better concurrency
//   - NORMAL synchronous (safe with WAL, much faster)
//   - larger page cache
//   - foreign_keys on, so FK violations actually surface
//   - busy_timeout instead of immediate SQLITE_BUSY errors
//
// Pragmas ride on the DSN rather than an Exec at startup because they
// are connection-scoped and the pool opens connections lazily.
func (s *sqliteStrategy) DSN() (string, string, error) {
	dsn := s.path
	if s.path == ":memory:" {
		dsn = "file::memory:?cache=shared"
	} else if !strings.HasPrefix(s.path, "file:") {
		dsn = "file:" + s.path
	}

	pragmas := "_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=cache_size(10000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(10000)"

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return "sqlite", dsn + sep + pragmas, nil
}

// LogSafeDSN is just the file path; there are no credentials to mask.
func (s *sqliteStrategy) LogSafeDSN() string {
	return s.path
}

// Configure caps the pool. SQLite allows one writer at a time; a small
// pool avoids a stack of connections fighting over the write lock while
// busy_timeout papers over the rest.
func (s *sqliteStrategy) Configure(db *sqlx.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

// MigrationDriver wraps the connection for golang-migrate's modernc
// sqlite driver.
func (s *sqliteStrategy) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratesqlite.WithInstance(db, &migratesqlite.Config{})
}
