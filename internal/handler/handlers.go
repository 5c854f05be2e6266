package handler

import (
	"github.com/migherize/go-api-boilerplate/internal/server"
	"github.com/migherize/go-api-boilerplate/internal/service"
)

// Handlers is a container that groups all HTTP handlers, so router
// setup passes one object around instead of many.
type Handlers struct {
	Root    *RootHandler    // Root serves the service banner on GET /.
	Health  *HealthHandler  // Health serves liveness/readiness checks.
	OpenAPI *OpenAPIHandler // OpenAPI serves API documentation.
	Todo    *TodoHandler    // Todo serves the example CRUD resource.
}

// NewHandlers constructs the handler container. Handlers that do not
// need services today still take this signature so adding ones that do
// later does not change the wiring.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Root:    NewRootHandler(s),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Todo:    NewTodoHandler(s, services.Todo),
	}
}
