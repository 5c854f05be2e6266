package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
)

// postgresStrategy connects through pgx. The conn config is registered
// with the pgx stdlib adapter so the pool stays a plain *sqlx.DB while
// query tracing (tracelog + zerolog) and New Relic instrumentation keep
// working at the driver level.
type postgresStrategy struct {
	cfg           *config.Config
	logger        *zerolog.Logger
	loggerService *loggerPkg.LoggerService
}

func newPostgresStrategy(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (Strategy, error) {
	return &postgresStrategy{
		cfg:           cfg,
		logger:        logger,
		loggerService: loggerService,
	}, nil
}

func (s *postgresStrategy) Name() string {
	return config.DriverPostgres
}

// multiTracer chains multiple pgx tracers.
//
// pgx supports a single Tracer in ConnConfig, so this adapter fans the
// calls out to every tracer that implements the relevant method: the
// New Relic tracer for APM, and tracelog for local SQL logging.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart implements the pgx tracer interface. The context is
// threaded through every tracer so they can stash values for
// TraceQueryEnd.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

// TraceQueryEnd implements the pgx tracer interface.
func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

// connString builds the postgres URL. The password is URL-escaped so
// values like "pa:ss@word" cannot destroy the URL structure, and the
// host/port join handles IPv6 correctly.
func (s *postgresStrategy) connString() string {
	db := s.cfg.Database
	hostPort := net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
	encodedPassword := url.QueryEscape(db.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		db.User,
		encodedPassword,
		hostPort,
		db.Name,
		db.SSLMode,
	)
}

// DSN parses the connection string into a pgx conn config, attaches the
// tracer chain, and registers the config with the stdlib adapter. The
// returned dsn is the registration handle, usable with sql/sqlx Open.
func (s *postgresStrategy) DSN() (string, string, error) {
	connConfig, err := pgx.ParseConfig(s.connString())
	if err != nil {
		return "", "", fmt.Errorf("failed to parse pgx conn config: %w", err)
	}

	// New Relic postgres instrumentation, only when the agent is live.
	if s.loggerService != nil && s.loggerService.GetApplication() != nil {
		connConfig.Tracer = nrpgx5.NewTracer()
	}

	// In local env, log SQL queries through pgx tracelog backed by
	// zerolog. Very noisy, which is why it stays local-only.
	if s.cfg.Primary.Env == "local" && s.logger != nil {
		globalLevel := s.logger.GetLevel()
		pgxLogger := loggerPkg.NewPgxLogger(globalLevel)

		localTracer := &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerPkg.GetPgxTraceLogLevel(globalLevel),
		}

		if connConfig.Tracer != nil {
			// Chain New Relic and the local SQL tracer.
			connConfig.Tracer = &multiTracer{
				tracers: []any{connConfig.Tracer, localTracer},
			}
		} else {
			connConfig.Tracer = localTracer
		}
	}

	return "pgx", stdlib.RegisterConnConfig(connConfig), nil
}

// LogSafeDSN masks the password.
func (s *postgresStrategy) LogSafeDSN() string {
	db := s.cfg.Database
	return fmt.Sprintf("postgres://%s:***@%s/%s?sslmode=%s",
		db.User,
		net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		db.Name,
		db.SSLMode,
	)
}

// Configure applies the pool tuning from config.
func (s *postgresStrategy) Configure(db *sqlx.DB) error {
	applyPoolSettings(db, &s.cfg.Database)
	return nil
}

// MigrationDriver wraps the connection for golang-migrate. Versions are
// tracked in the default schema_migrations table.
func (s *postgresStrategy) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratepg.WithInstance(db, &migratepg.Config{})
}
