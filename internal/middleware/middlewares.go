package middleware

import (
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/migherize/go-api-boilerplate/internal/server"
)

// Middlewares is a lightweight container that groups all middleware
// components used by the HTTP server.
//
// Why this exists:
//   - Avoid scattering middleware construction through routing code.
//   - Provide a single place where shared dependencies (*server.Server
//     and the New Relic application) are wired into middleware.
type Middlewares struct {
	// Global holds common middleware used across the whole API: CORS,
	// request logging, recovery, secure headers, and the global error
	// handler.
	Global *GlobalMiddlewares

	// Auth provides Clerk-based authentication middleware and attaches
	// user context.
	Auth *AuthMiddleware

	// ContextEnhancer enriches each request with a request-scoped
	// logger (request_id, method, path, ip, optional user & trace
	// metadata).
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and helpers to attach
	// custom attributes and notice errors on transactions.
	Tracing *TracingMiddleware

	// RateLimit records rate limit telemetry events.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components using the
// application container. With New Relic unconfigured, nrApp is nil and
// the tracing middleware degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	var nrApp *newrelic.Application
	if s.LoggerService != nil {
		nrApp = s.LoggerService.GetApplication()
	}

	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, nrApp),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
