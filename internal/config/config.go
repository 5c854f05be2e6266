// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so the application fails
// fast on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability,
//     redis, auth, integrations).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file (if present) into the
	// process environment before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Env vars are read with the APP_ prefix and "." as the nesting
// delimiter, so APP_SERVER.PORT maps to Config.Server.Port via the
// koanf key "server.port".
const envPrefix = "APP_"

// Driver keys accepted by the database strategy selector.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from, and the
// `validate:"..."` tags are enforced by go-playground/validator.
//
// Redis, Auth, Integration and Observability are pointers because they
// are optional blocks. A nil block means the corresponding subsystem
// (background jobs, Clerk auth, Resend email, New Relic) stays off.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         *RedisConfig         `koanf:"redis"`
	Auth          *AuthConfig          `koanf:"auth"`
	Integration   *IntegrationConfig   `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// ProjectName and Version are reported by the root endpoint and used to
// tag logs and traces.
type Primary struct {
	Env         string `koanf:"env" validate:"required,oneof=local development staging production"`
	ProjectName string `koanf:"project_name"`
	Version     string `koanf:"version"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig selects a database driver and carries the settings for
// every supported backend. Only the fields relevant to the selected
// driver are required; Validate enforces that per driver.
type DatabaseConfig struct {
	// Driver selects the connection strategy: sqlite, postgres or mysql.
	// "postgresql" is accepted as an alias for postgres.
	Driver string `koanf:"driver" validate:"required"`

	// Path is the SQLite database file location (sqlite only).
	Path string `koanf:"path"`

	// Server-based driver settings (postgres/mysql).
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`

	// SSLMode applies to postgres only (disable, require, verify-full, ...).
	SSLMode string `koanf:"ssl_mode"`

	// Pool tuning. Zero values fall back to the defaults set in
	// applyDefaults.
	MaxOpenConns    int `koanf:"max_open_conns"`
	MaxIdleConns    int `koanf:"max_idle_conns"`
	ConnMaxLifetime int `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int `koanf:"conn_max_idle_time"`
}

// Normalize canonicalizes the driver key. It lowercases the value and
// folds the "postgresql" alias into "postgres".
func (d *DatabaseConfig) Normalize() {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	if d.Driver == "postgresql" {
		d.Driver = DriverPostgres
	}
}

// Validate applies cross-field rules that struct tags cannot express:
// which settings are required depends on the selected driver.
func (d *DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		// Path has a default applied before validation, so an empty
		// value here means somebody explicitly blanked it.
		if d.Path == "" {
			return fmt.Errorf("database path is required for the sqlite driver")
		}
	case DriverPostgres, DriverMySQL:
		if d.Host == "" {
			return fmt.Errorf("database host is required for the %s driver", d.Driver)
		}
		if d.Port <= 0 {
			return fmt.Errorf("database port is required for the %s driver", d.Driver)
		}
		if d.User == "" {
			return fmt.Errorf("database user is required for the %s driver", d.Driver)
		}
		if d.Name == "" {
			return fmt.Errorf("database name is required for the %s driver", d.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %q (must be one of: %s, %s, %s)",
			d.Driver, DriverSQLite, DriverPostgres, DriverMySQL)
	}
	return nil
}

// RedisConfig contains Redis connection details.
// Address is "host:port". When the whole block is absent the server
// runs without Redis and the background job service stays disabled.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets (Clerk).
//
// Keep the `.env` file out of version control; a leaked secret key is a
// leaked user base.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig stores third-party API credentials used by lib
// packages (currently the Resend email provider).
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`
	EmailFrom    string `koanf:"email_from"`
}

// Load reads configuration from environment variables, unmarshals it
// into Config, validates it and applies defaults.
//
// Behavior summary:
//   - Loads env vars with prefix APP_
//   - Converts env keys into koanf keys using "." nesting
//   - Unmarshals into Config
//   - Applies defaults (env, server, sqlite path, pool sizes, observability)
//   - Validates required fields plus the driver-specific database rules
func Load() (*Config, error) {
	// Bootstrap logger for configuration failures. The real logger is
	// built later from the loaded config.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load initial env variables")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal main config")
	}

	mainConfig.applyDefaults()
	mainConfig.Database.Normalize()

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	if err := mainConfig.Database.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid database config")
	}

	// Force service name and environment so telemetry sees consistent
	// naming regardless of what was configured under observability.
	mainConfig.Observability.ServiceName = mainConfig.Primary.ProjectName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills optional values so the template boots with an
// empty environment: local env, port 8080, permissive CORS and a sqlite
// database file.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "local"
	}
	if c.Primary.ProjectName == "" {
		c.Primary.ProjectName = "go-api-boilerplate"
	}
	if c.Primary.Version == "" {
		c.Primary.Version = "1.0.0"
	}

	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "database.sqlite"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 15
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}
	if c.Database.ConnMaxIdleTime == 0 {
		c.Database.ConnMaxIdleTime = 300
	}

	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
}
