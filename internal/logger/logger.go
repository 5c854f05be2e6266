// Package logger configures the application's logging, monitoring, and
// observability.
//
// It uses ZeroLog for structured logging and integrates with New Relic
// to instrument the codebase, forwarding logs, metrics, and traces for
// debugging.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/newrelic/go-agent/v3/integrations/logcontext-v2/zerologWriter"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is not configured (empty license key), the service
// still exists but GetApplication returns nil; every caller treats a
// nil application as "telemetry off".
type LoggerService struct {
	app *newrelic.Application
}

// GetApplication returns the New Relic application, or nil when the
// agent is disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.app
}

// Shutdown flushes pending telemetry and stops the agent.
// Safe to call when the agent is disabled.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s != nil && s.app != nil {
		s.app.Shutdown(timeout)
	}
}

// New constructs the application logger and the observability service
// from config.
//
// Behavior:
//   - Parse the configured log level (environment-aware default).
//   - Start the New Relic agent when a license key is present.
//   - Route log output through the New Relic zerolog writer when log
//     forwarding is enabled, so log lines are decorated with trace
//     metadata and shipped to the APM backend.
//   - Use a human-friendly console writer when format is "console".
func New(cfg *config.Config) (*zerolog.Logger, *LoggerService, error) {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	service := &LoggerService{}

	nrCfg := cfg.Observability.NewRelic
	if nrCfg.LicenseKey != "" {
		opts := []newrelic.ConfigOption{
			newrelic.ConfigAppName(cfg.Observability.ServiceName),
			newrelic.ConfigLicense(nrCfg.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(nrCfg.DistributedTracingEnabled),
			newrelic.ConfigAppLogForwardingEnabled(nrCfg.AppLogForwardingEnabled),
		}
		if nrCfg.DebugLogging {
			opts = append(opts, newrelic.ConfigDebugLogger(os.Stdout))
		}

		app, err := newrelic.NewApplication(opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing new relic application: %w", err)
		}
		service.app = app
	}

	var out io.Writer = os.Stdout
	switch {
	case cfg.Observability.Logging.Format == "console":
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	case service.app != nil && nrCfg.AppLogForwardingEnabled:
		// The zerolog writer decorates each line with linking metadata
		// and forwards it through the agent.
		out = zerologWriter.New(os.Stdout, service.app)
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()

	return &logger, service, nil
}

// WithTraceContext returns a copy of logger carrying the trace and span
// ids of the given transaction, so log lines can be correlated with
// distributed traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}
	md := txn.GetTraceMetadata()
	builder := logger.With()
	if md.TraceID != "" {
		builder = builder.Str("trace.id", md.TraceID)
	}
	if md.SpanID != "" {
		builder = builder.Str("span.id", md.SpanID)
	}
	return builder.Logger()
}
