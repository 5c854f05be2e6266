package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/migherize/go-api-boilerplate/internal/model"
	"github.com/migherize/go-api-boilerplate/internal/repository"
	"github.com/migherize/go-api-boilerplate/internal/server"
	"github.com/migherize/go-api-boilerplate/internal/service"
	"github.com/migherize/go-api-boilerplate/internal/validation"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// TodoHandler serves the example Todo CRUD resource. It is the
// reference vertical slice: copy this file (plus the matching model,
// repository, service and migration) when adding a new resource.
type TodoHandler struct {
	Handler
	todos *service.TodoService
}

// NewTodoHandler constructs a TodoHandler.
func NewTodoHandler(s *server.Server, todos *service.TodoService) *TodoHandler {
	return &TodoHandler{
		Handler: NewHandler(s),
		todos:   todos,
	}
}

// CreateTodoRequest is the payload for POST /api/v1/todos.
type CreateTodoRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	DueDate     *time.Time `json:"due_date"`
	RemindTo    *string    `json:"remind_to" validate:"omitempty,email"`
}

// Validate applies tag rules plus the cross-field rules tags cannot
// express: a reminder needs a due date, and due dates must be in the
// future.
func (r *CreateTodoRequest) Validate() error {
	if err := validation.Validator.Struct(r); err != nil {
		return err
	}

	var custom validation.CustomValidationErrors
	if r.DueDate != nil && !r.DueDate.After(time.Now()) {
		custom = append(custom, validation.CustomValidationError{
			Field:   "due_date",
			Message: "must be in the future",
		})
	}
	if r.RemindTo != nil && r.DueDate == nil {
		custom = append(custom, validation.CustomValidationError{
			Field:   "remind_to",
			Message: "requires a due_date to schedule the reminder",
		})
	}
	if len(custom) > 0 {
		return custom
	}

	return nil
}

// Create handles POST /api/v1/todos.
func (h *TodoHandler) Create(c echo.Context, req *CreateTodoRequest) (*model.Todo, error) {
	return h.todos.Create(c.Request().Context(), service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		RemindTo:    req.RemindTo,
	})
}

// ListTodosRequest is the query payload for GET /api/v1/todos.
//
// Limit 0 means "not provided" and falls back to the default; the
// validator only bounds explicit values.
type ListTodosRequest struct {
	Limit     int   `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int   `query:"offset" validate:"omitempty,min=0"`
	Completed *bool `query:"completed"`
}

func (r *ListTodosRequest) Validate() error {
	return validation.Validator.Struct(r)
}

// ListTodosResponse wraps the collection with the paging echo clients
// need to request the next page.
type ListTodosResponse struct {
	Todos  []model.Todo `json:"todos"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
	Count  int          `json:"count"`
}

// List handles GET /api/v1/todos.
func (h *TodoHandler) List(c echo.Context, req *ListTodosRequest) (*ListTodosResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	todos, err := h.todos.List(c.Request().Context(), repository.TodoFilter{
		Completed: req.Completed,
		Limit:     limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &ListTodosResponse{
		Todos:  todos,
		Limit:  limit,
		Offset: req.Offset,
		Count:  len(todos),
	}, nil
}

// GetTodoRequest carries the path parameter for GET /api/v1/todos/:id.
type GetTodoRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *GetTodoRequest) Validate() error {
	return validation.Validator.Struct(r)
}

// Get handles GET /api/v1/todos/:id.
func (h *TodoHandler) Get(c echo.Context, req *GetTodoRequest) (*model.Todo, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, err
	}

	return h.todos.GetByID(c.Request().Context(), id)
}

// UpdateTodoRequest is the payload for PUT /api/v1/todos/:id. PUT
// replaces the full mutable state; omitted optional fields clear their
// columns.
type UpdateTodoRequest struct {
	ID          string     `param:"id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	RemindTo    *string    `json:"remind_to" validate:"omitempty,email"`
}

func (r *UpdateTodoRequest) Validate() error {
	if err := validation.Validator.Struct(r); err != nil {
		return err
	}

	if r.RemindTo != nil && r.DueDate == nil {
		return validation.CustomValidationErrors{{
			Field:   "remind_to",
			Message: "requires a due_date to schedule the reminder",
		}}
	}

	return nil
}

// Update handles PUT /api/v1/todos/:id.
func (h *TodoHandler) Update(c echo.Context, req *UpdateTodoRequest) (*model.Todo, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, err
	}

	return h.todos.Update(c.Request().Context(), id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		RemindTo:    req.RemindTo,
	})
}

// DeleteTodoRequest carries the path parameter for DELETE
// /api/v1/todos/:id.
type DeleteTodoRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (r *DeleteTodoRequest) Validate() error {
	return validation.Validator.Struct(r)
}

// Delete handles DELETE /api/v1/todos/:id, responding 204.
func (h *TodoHandler) Delete(c echo.Context, req *DeleteTodoRequest) error {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}

	return h.todos.Delete(c.Request().Context(), id)
}
