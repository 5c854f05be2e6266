// Package server defines the core Server struct that composes the
// app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server and
// handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool (via the driver strategy selector)
//   - optional redis client
//   - optional background job worker server (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/migherize/go-api-boilerplate/internal/database"
	"github.com/migherize/go-api-boilerplate/internal/lib/job"
	loggerPkg "github.com/migherize/go-api-boilerplate/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself. It holds the config, the loggers,
// the database and redis connections, the background job service, and
// an internal *http.Server used to listen and serve requests.
type Server struct {
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application
	// instance; nil application means telemetry is off.
	LoggerService *loggerPkg.LoggerService

	// DB wraps the connection pool of the selected database strategy.
	DB *database.Database

	// Redis is nil when no redis block is configured.
	Redis *redis.Client

	// Job runs background workers and provides a client for
	// enqueueing. Nil when redis is not configured.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server directly; that is done in
// SetupHTTPServer + Start.
//
// Notes:
//   - The database is required: a failed connection blocks startup.
//   - Redis is optional: a failed ping logs and continues, a missing
//     config block disables redis and background jobs entirely.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
	}

	if cfg.Redis != nil {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		// Instrument redis commands when the New Relic agent is live,
		// so they show up in distributed traces.
		if loggerService != nil && loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		// Redis connections are lazy; ping with a timeout so startup
		// does not hang on a dead address.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("failed to connect to redis, continuing without redis")
		}

		server.Redis = redisClient

		jobService := job.NewJobService(logger, cfg)
		jobService.InitHandlers(cfg, logger)

		if err := jobService.Start(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to start job service: %w", err)
		}

		server.Job = jobService
	}

	return server, nil
}

// SetupHTTPServer configures the internal net/http server. The router
// is passed in as a plain http.Handler (Echo satisfies it).
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Timeouts protect against slow clients and resource
		// exhaustion. Config stores whole seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called
// first, and blocks until the server stops or errors.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("db_driver", s.DB.DriverName()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its dependencies:
// stop the HTTP server (finishing inflight requests until the ctx
// deadline), close the DB pool, stop background jobs, close redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to close redis client")
		}
	}

	return nil
}
