package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/server"
)

// RateLimitMiddleware records rate-limit telemetry. The template does
// not enforce limits itself (put a CDN or gateway in front for that),
// but when a limiter upstream flags a request these helpers make the
// event visible in New Relic.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit records a custom event for a rate-limited request.
// Call it from a limiter's deny handler.
func (rl *RateLimitMiddleware) RecordRateLimitHit(c echo.Context, limitType string) {
	app := rl.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
		"path":       c.Request().URL.Path,
		"method":     c.Request().Method,
		"limit_type": limitType,
		"client_ip":  c.RealIP(),
		"user_id":    GetUserID(c),
		"request_id": GetRequestID(c),
	})
}
