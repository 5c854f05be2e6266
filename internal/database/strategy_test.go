package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migherize/go-api-boilerplate/internal/config"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:   driver,
			Path:     ":memory:",
			Host:     "localhost",
			Port:     5432,
			User:     "app",
			Password: "secret",
			Name:     "app",
			SSLMode:  "disable",
		},
	}
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestForDriverUnknown(t *testing.T) {
	cfg := testConfig("oracle")

	_, err := ForDriver(cfg, nopLogger(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")

	// The error lists the supported drivers so a typo is self-correcting.
	assert.Contains(t, err.Error(), config.DriverSQLite)
	assert.Contains(t, err.Error(), config.DriverPostgres)
	assert.Contains(t, err.Error(), config.DriverMySQL)
}

func TestForDriverSelectsStrategy(t *testing.T) {
	for _, driver := range []string{config.DriverSQLite, config.DriverPostgres, config.DriverMySQL} {
		strategy, err := ForDriver(testConfig(driver), nopLogger(), nil)
		require.NoError(t, err, driver)
		assert.Equal(t, driver, strategy.Name())
	}
}

func TestSQLiteDSNInMemory(t *testing.T) {
	strategy, err := ForDriver(testConfig(config.DriverSQLite), nopLogger(), nil)
	require.NoError(t, err)

	driverName, dsn, err := strategy.DSN()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", driverName)
	assert.True(t, strings.HasPrefix(dsn, "file::memory:?cache=shared"), dsn)
	assert.Contains(t, dsn, "_pragma=journal_mode(WAL)")
	assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	assert.Contains(t, dsn, "_pragma=busy_timeout(10000)")
}

func TestSQLiteDSNFilePath(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.sqlite")

	strategy, err := ForDriver(cfg, nopLogger(), nil)
	require.NoError(t, err)

	_, dsn, err := strategy.DSN()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(dsn, "file:"), dsn)
	assert.Contains(t, dsn, "app.sqlite")
	assert.Contains(t, dsn, "_pragma=synchronous(NORMAL)")
}

func TestMySQLDSN(t *testing.T) {
	cfg := testConfig(config.DriverMySQL)
	cfg.Database.Port = 3306

	strategy, err := ForDriver(cfg, nopLogger(), nil)
	require.NoError(t, err)

	driverName, dsn, err := strategy.DSN()
	require.NoError(t, err)

	assert.Equal(t, "mysql", driverName)
	assert.Contains(t, dsn, "tcp(localhost:3306)")
	assert.Contains(t, dsn, "/app")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestLogSafeDSNMasksPassword(t *testing.T) {
	for _, driver := range []string{config.DriverPostgres, config.DriverMySQL} {
		strategy, err := ForDriver(testConfig(driver), nopLogger(), nil)
		require.NoError(t, err)

		safe := strategy.LogSafeDSN()
		assert.NotContains(t, safe, "secret", driver)
		assert.Contains(t, safe, "localhost", driver)
	}
}

func TestNewWithSQLiteInMemory(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)

	db, err := New(cfg, nopLogger(), nil)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, config.DriverSQLite, db.DriverName())
	require.NoError(t, db.DB.PingContext(context.Background()))

	// The pool is capped to avoid writers fighting over the lock.
	assert.Equal(t, 1, db.DB.Stats().MaxOpenConnections)
}

func TestMigrateSQLite(t *testing.T) {
	cfg := testConfig(config.DriverSQLite)
	cfg.Database.Path = filepath.Join(t.TempDir(), "migrate.sqlite")

	require.NoError(t, Migrate(context.Background(), nopLogger(), cfg))

	// Running again is a no-op, not an error.
	require.NoError(t, Migrate(context.Background(), nopLogger(), cfg))

	strategy, err := ForDriver(cfg, nopLogger(), nil)
	require.NoError(t, err)

	driverName, dsn, err := strategy.DSN()
	require.NoError(t, err)

	db, err := sql.Open(driverName, dsn)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'todos'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "todos", name)
}
