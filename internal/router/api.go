package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/handler"
	"github.com/migherize/go-api-boilerplate/internal/middleware"
)

// registerAPIRoutes registers versioned business routes under /api/v1.
//
// The example Todo resource ships unauthenticated so a fresh clone
// works without Clerk keys. To protect a group, attach the auth
// middleware:
//
//	todos := v1.Group("/todos", mw.Auth.RequireAuth)
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	v1 := r.Group("/api/v1")

	todos := v1.Group("/todos")
	todos.POST("", handler.Handle(h.Todo.Handler, h.Todo.Create, http.StatusCreated, &handler.CreateTodoRequest{}))
	todos.GET("", handler.Handle(h.Todo.Handler, h.Todo.List, http.StatusOK, &handler.ListTodosRequest{}))
	todos.GET("/:id", handler.Handle(h.Todo.Handler, h.Todo.Get, http.StatusOK, &handler.GetTodoRequest{}))
	todos.PUT("/:id", handler.Handle(h.Todo.Handler, h.Todo.Update, http.StatusOK, &handler.UpdateTodoRequest{}))
	todos.DELETE("/:id", handler.HandleNoContent(h.Todo.Handler, h.Todo.Delete, http.StatusNoContent, &handler.DeleteTodoRequest{}))
}
