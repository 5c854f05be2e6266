package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/migherize/go-api-boilerplate/internal/lib/job"
	"github.com/migherize/go-api-boilerplate/internal/model"
	"github.com/migherize/go-api-boilerplate/internal/repository"
	"github.com/migherize/go-api-boilerplate/internal/server"
)

// todoStore is the slice of the repository the service needs. Tests
// substitute a fake here instead of standing up a database.
type todoStore interface {
	Create(ctx context.Context, todo *model.Todo) (*model.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	List(ctx context.Context, filter repository.TodoFilter) ([]model.Todo, error)
	Update(ctx context.Context, todo *model.Todo) (*model.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TodoService implements todo business logic: CRUD plus scheduling
// reminder emails for todos that carry a due date and recipient.
type TodoService struct {
	server *server.Server
	todos  todoStore
}

// NewTodoService constructs a TodoService.
func NewTodoService(s *server.Server, todos todoStore) *TodoService {
	return &TodoService{
		server: s,
		todos:  todos,
	}
}

// CreateTodoInput carries the fields a caller may set when creating a
// todo.
type CreateTodoInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	RemindTo    *string
}

// UpdateTodoInput carries the full mutable state for an update. PUT
// semantics: every field is written, absent optional fields clear the
// column.
type UpdateTodoInput struct {
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	RemindTo    *string
}

// Create persists a new todo and, when it has both a due date and a
// reminder recipient, schedules a reminder email at the due date.
func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) (*model.Todo, error) {
	todo := &model.Todo{
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		DueDate:     input.DueDate,
		RemindTo:    input.RemindTo,
	}

	created, err := s.todos.Create(ctx, todo)
	if err != nil {
		return nil, err
	}

	s.scheduleReminder(created)

	return created, nil
}

// GetByID returns a single todo.
func (s *TodoService) GetByID(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	return s.todos.GetByID(ctx, id)
}

// List returns todos matching the filter.
func (s *TodoService) List(ctx context.Context, filter repository.TodoFilter) ([]model.Todo, error) {
	return s.todos.List(ctx, filter)
}

// Update replaces the mutable fields of an existing todo. A reminder is
// re-scheduled when the due date changed or a recipient was newly
// added; Asynq de-duplicates nothing here, so updating a due date
// enqueues a fresh task and the stale one fires against the old date.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, input UpdateTodoInput) (*model.Todo, error) {
	existing, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reschedule := needsReschedule(existing, input)

	existing.Title = input.Title
	existing.Description = input.Description
	existing.Completed = input.Completed
	existing.DueDate = input.DueDate
	existing.RemindTo = input.RemindTo

	updated, err := s.todos.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	if reschedule && !updated.Completed {
		s.scheduleReminder(updated)
	}

	return updated, nil
}

// needsReschedule reports whether an update should enqueue a fresh
// reminder: the due date moved, or a recipient appeared on a todo that
// had none (its due date alone never scheduled anything).
func needsReschedule(existing *model.Todo, input UpdateTodoInput) bool {
	if !equalTimePtr(existing.DueDate, input.DueDate) {
		return true
	}
	return existing.RemindTo == nil && input.RemindTo != nil
}

// Delete removes a todo.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.todos.Delete(ctx, id)
}

// scheduleReminder enqueues a reminder email task when the todo has a
// recipient and a future due date. Failures are logged, never returned:
// a broken Redis should not fail todo writes.
func (s *TodoService) scheduleReminder(todo *model.Todo) {
	if s.server.Job == nil || todo.RemindTo == nil || todo.DueDate == nil {
		return
	}
	if !todo.DueDate.After(time.Now()) {
		return
	}

	task, err := job.NewTodoReminderTask(todo.ID.String(), *todo.RemindTo, todo.Title, *todo.DueDate)
	if err != nil {
		s.server.Logger.Error().
			Err(err).
			Str("todo_id", todo.ID.String()).
			Msg("failed to build reminder task")
		return
	}

	info, err := s.server.Job.Client.Enqueue(task)
	if err != nil {
		s.server.Logger.Error().
			Err(err).
			Str("todo_id", todo.ID.String()).
			Msg("failed to enqueue reminder task")
		return
	}

	s.server.Logger.Info().
		Str("todo_id", todo.ID.String()).
		Str("task_id", info.ID).
		Time("process_at", *todo.DueDate).
		Msg("scheduled todo reminder")
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
