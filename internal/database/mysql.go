package database

import (
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
)

// mysqlStrategy connects through go-sql-driver/mysql.
type mysqlStrategy struct {
	cfg    *config.Config
	logger *zerolog.Logger
}

func newMySQLStrategy(cfg *config.Config, logger *zerolog.Logger, _ *loggerPkg.LoggerService) (Strategy, error) {
	return &mysqlStrategy{cfg: cfg, logger: logger}, nil
}

func (s *mysqlStrategy) Name() string {
	return config.DriverMySQL
}

// DSN builds the driver DSN through the driver's own config type, which
// handles escaping. Session details baked in:
//   - utf8mb4 charset, so the connection doesn't mangle emoji
//   - parseTime, so TIMESTAMP/DATETIME columns scan into time.Time
//   - multiStatements, required by the migration runner
//   - a dial timeout so a dead server fails fast
func (s *mysqlStrategy) DSN() (string, string, error) {
	db := s.cfg.Database

	mc := gomysql.NewConfig()
	mc.User = db.User
	mc.Passwd = db.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
	mc.DBName = db.Name
	mc.ParseTime = true
	mc.Timeout = 10 * time.Second
	mc.MultiStatements = true
	mc.Params = map[string]string{
		"charset": "utf8mb4",
	}

	return "mysql", mc.FormatDSN(), nil
}

// LogSafeDSN masks the password.
func (s *mysqlStrategy) LogSafeDSN() string {
	db := s.cfg.Database
	return fmt.Sprintf("mysql://%s:***@%s/%s",
		db.User,
		net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		db.Name,
	)
}

// Configure applies the pool tuning from config.
func (s *mysqlStrategy) Configure(db *sqlx.DB) error {
	applyPoolSettings(db, &s.cfg.Database)
	return nil
}

// MigrationDriver wraps the connection for golang-migrate.
func (s *mysqlStrategy) MigrationDriver(db *sql.DB) (migratedb.Driver, error) {
	return migratemysql.WithInstance(db, &migratemysql.Config{})
}
