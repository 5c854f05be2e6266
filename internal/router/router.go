// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/handler"
	"github.com/migherize/go-api-boilerplate/internal/middleware"
	"github.com/migherize/go-api-boilerplate/internal/server"
)

// New builds the Echo instance with the full middleware chain and all
// route groups registered.
//
// Middleware order matters:
//  1. RequestID, so every later stage can correlate logs
//  2. New Relic transaction start (no-op when APM is off)
//  3. ContextEnhancer, which builds the request-scoped logger
//  4. Tracing attributes and error reporting
//  5. CORS, request logging, recovery, secure headers
func New(s *server.Server, h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	r := echo.New()

	r.HideBanner = true
	r.HidePort = true

	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	r.Use(middleware.RequestID())
	r.Use(mw.Tracing.NewRelicMiddleware())
	r.Use(mw.ContextEnhancer.EnhanceContext())
	r.Use(mw.Tracing.EnhanceTracing())
	r.Use(mw.Global.CORS())
	r.Use(mw.Global.RequestLogger())
	r.Use(mw.Global.Recover())
	r.Use(mw.Global.Secure())

	registerSystemRoutes(r, h)
	registerAPIRoutes(r, h, mw)

	return r
}
