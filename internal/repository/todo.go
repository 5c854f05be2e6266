package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/migherize/go-api-boilerplate/internal/model"
	"github.com/migherize/go-api-boilerplate/internal/server"
)

// TodoRepository persists Todo entities.
type TodoRepository struct {
	server *server.Server
}

// NewTodoRepository constructs a TodoRepository.
func NewTodoRepository(s *server.Server) *TodoRepository {
	return &TodoRepository{
		server: s,
	}
}

// TodoFilter narrows List results. Nil fields are ignored.
type TodoFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}

// Create inserts a new todo and returns it with timestamps populated.
// Timestamps are generated here rather than by the database so the
// returned entity matches what was written on every driver.
func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	now := time.Now().UTC()
	todo.ID = uuid.New()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	query := r.server.DB.DB.Rebind(`
		INSERT INTO todos (id, title, description, completed, due_date, remind_to, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.server.DB.DB.ExecContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Completed,
		todo.DueDate, todo.RemindTo, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return todo, nil
}

// GetByID fetches a single todo.
func (r *TodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	var todo model.Todo

	query := r.server.DB.DB.Rebind(`
		SELECT id, title, description, completed, due_date, remind_to, created_at, updated_at
		FROM todos
		WHERE id = ?`)

	if err := r.server.DB.DB.GetContext(ctx, &todo, query, id); err != nil {
		return nil, errors.Wrap(err, "table:todos:")
	}

	return &todo, nil
}

// List returns todos ordered by creation time, newest first.
func (r *TodoRepository) List(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	query := `
		SELECT id, title, description, completed, due_date, remind_to, created_at, updated_at
		FROM todos`
	args := []interface{}{}

	if filter.Completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, *filter.Completed)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	todos := []model.Todo{}
	if err := r.server.DB.DB.SelectContext(ctx, &todos, r.server.DB.DB.Rebind(query), args...); err != nil {
		return nil, err
	}

	return todos, nil
}

// Update rewrites every mutable column of an existing todo.
func (r *TodoRepository) Update(ctx context.Context, todo *model.Todo) (*model.Todo, error) {
	todo.UpdatedAt = time.Now().UTC()

	query := r.server.DB.DB.Rebind(`
		UPDATE todos
		SET title = ?, description = ?, completed = ?, due_date = ?, remind_to = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.server.DB.DB.ExecContext(ctx, query,
		todo.Title, todo.Description, todo.Completed,
		todo.DueDate, todo.RemindTo, todo.UpdatedAt, todo.ID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errors.Wrap(sql.ErrNoRows, "table:todos:")
	}

	return todo, nil
}

// Delete removes a todo by id.
func (r *TodoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.server.DB.DB.Rebind(`DELETE FROM todos WHERE id = ?`)

	result, err := r.server.DB.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Wrap(sql.ErrNoRows, "table:todos:")
	}

	return nil
}
