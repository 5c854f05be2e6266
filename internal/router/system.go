package router

import (
	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/handler"
)

// registerSystemRoutes registers endpoints that are not business logic:
// the service banner, health status, docs UI and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Service identification banner.
	r.GET("/", h.Root.ServiceInfo)

	// Health status endpoint (used by Kubernetes/monitors).
	r.GET("/status", h.Health.CheckHealth)

	// Serve all files from ./static at /static/*.
	// Used for openapi.json and openapi.html (and any future docs assets).
	r.Static("/static", "static")

	// Docs UI endpoint (serves openapi.html).
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
