package repository

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/migherize/go-api-boilerplate/internal/database"
	"github.com/migherize/go-api-boilerplate/internal/errs"
	"github.com/migherize/go-api-boilerplate/internal/model"
	"github.com/migherize/go-api-boilerplate/internal/server"
	"github.com/migherize/go-api-boilerplate/internal/sqlerr"
)

// newTestRepo migrates a throwaway sqlite database and returns a
// repository wired to it.
func newTestRepo(t *testing.T) *TodoRepository {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "test.sqlite"),
		},
	}

	require.NoError(t, database.Migrate(context.Background(), &logger, cfg))

	db, err := database.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     db,
	}

	return NewTodoRepository(s)
}

func strPtr(s string) *string { return &s }

func timePtr(tm time.Time) *time.Time { return &tm }

func TestTodoRepositoryCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	created, err := repo.Create(ctx, &model.Todo{
		Title:       "buy milk",
		Description: "two liters",
		DueDate:     timePtr(due),
		RemindTo:    strPtr("me@example.com"),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.Completed)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "buy milk", fetched.Title)
	assert.Equal(t, "two liters", fetched.Description)
	require.NotNil(t, fetched.DueDate)
	assert.True(t, fetched.DueDate.Equal(due))
	require.NotNil(t, fetched.RemindTo)
	assert.Equal(t, "me@example.com", *fetched.RemindTo)
}

func TestTodoRepositoryGetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// The error funnel recovers the entity name from the annotation.
	httpErr, ok := sqlerr.HandleError(err).(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Todo not found", httpErr.Message)
}

func TestTodoRepositoryUniqueTitle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Todo{Title: "dup"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &model.Todo{Title: "dup"})
	require.Error(t, err)

	httpErr, ok := sqlerr.HandleError(err).(*errs.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_ALREADY_EXISTS", httpErr.Code)
}

func TestTodoRepositoryList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		todo, err := repo.Create(ctx, &model.Todo{Title: title})
		require.NoError(t, err)

		if i == 2 {
			todo.Completed = true
			_, err = repo.Update(ctx, todo)
			require.NoError(t, err)
		}
	}

	all, err := repo.List(ctx, TodoFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed := true
	done, err := repo.List(ctx, TodoFilter{Completed: &completed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "third", done[0].Title)

	pending := false
	open, err := repo.List(ctx, TodoFilter{Completed: &pending, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	paged, err := repo.List(ctx, TodoFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, paged, 1)
}

func TestTodoRepositoryUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Todo{Title: "before"})
	require.NoError(t, err)

	created.Title = "after"
	created.Completed = true
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", fetched.Title)
	assert.True(t, fetched.Completed)
}

func TestTodoRepositoryUpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Update(context.Background(), &model.Todo{ID: uuid.New(), Title: "ghost"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTodoRepositoryDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Todo{Title: "to delete"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
