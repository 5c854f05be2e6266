package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/server"
)

// RootHandler serves the service banner at GET /: project name,
// version, environment and the active database driver. Useful as a
// quick "is it this service, which build" check.
type RootHandler struct {
	Handler
}

// NewRootHandler constructs a RootHandler.
func NewRootHandler(s *server.Server) *RootHandler {
	return &RootHandler{
		Handler: NewHandler(s),
	}
}

// ServiceInfo returns basic service identification.
func (h *RootHandler) ServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"project":     h.server.Config.Primary.ProjectName,
		"version":     h.server.Config.Primary.Version,
		"environment": h.server.Config.Primary.Env,
		"status":      "running",
		"database": map[string]interface{}{
			"driver": h.server.DB.DriverName(),
		},
		"docs": "/docs",
	})
}
