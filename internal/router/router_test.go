package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/migherize/go-api-boilerplate/internal/database"
	"github.com/migherize/go-api-boilerplate/internal/handler"
	"github.com/migherize/go-api-boilerplate/internal/middleware"
	"github.com/migherize/go-api-boilerplate/internal/repository"
	"github.com/migherize/go-api-boilerplate/internal/server"
	"github.com/migherize/go-api-boilerplate/internal/service"
)

// newTestAPI stands up the full HTTP stack against a throwaway sqlite
// database: migrations, repositories, services, handlers, middleware
// and routing. No redis, auth or telemetry.
func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{
			Env:         "local",
			ProjectName: "go-api-boilerplate",
			Version:     "test",
		},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
		},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "api.sqlite"),
		},
		Observability: config.DefaultObservabilityConfig(),
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

	repos := repository.NewRepositories(s)
	services := service.NewServices(s, repos)
	handlers := handler.NewHandlers(s, services)
	middlewares := middleware.NewMiddlewares(s)

	return New(s, handlers, middlewares)
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}

	return rec, decoded
}

func TestServiceBanner(t *testing.T) {
	e := newTestAPI(t)

	rec, body := doJSON(t, e, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "go-api-boilerplate", body["project"])
	assert.Equal(t, "running", body["status"])

	dbInfo := body["database"].(map[string]interface{})
	assert.Equal(t, "sqlite", dbInfo["driver"])
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestAPI(t)

	rec, body := doJSON(t, e, http.MethodGet, "/status", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	checks := body["checks"].(map[string]interface{})
	dbCheck := checks["database"].(map[string]interface{})
	assert.Equal(t, "healthy", dbCheck["status"])

	// No redis configured, so no redis sub-check.
	_, hasRedis := checks["redis"]
	assert.False(t, hasRedis)
}

func TestCreateTodo(t *testing.T) {
	e := newTestAPI(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/v1/todos",
		`{"title": "buy milk", "description": "two liters"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "buy milk", body["title"])
	assert.Equal(t, false, body["completed"])
	assert.NotEmpty(t, body["created_at"])
}

func TestCreateTodoValidation(t *testing.T) {
	e := newTestAPI(t)

	rec, body := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"description": "no title"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", body["message"])

	fields := body["errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].(map[string]interface{})["field"])
}

func TestCreateTodoMalformedJSON(t *testing.T) {
	e := newTestAPI(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTodoDuplicateTitle(t *testing.T) {
	e := newTestAPI(t)

	rec, _ := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "dup"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "dup"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TODO_ALREADY_EXISTS", body["code"])
}

func TestListTodos(t *testing.T) {
	e := newTestAPI(t)

	for i := 0; i < 3; i++ {
		rec, _ := doJSON(t, e, http.MethodPost, "/api/v1/todos",
			fmt.Sprintf(`{"title": "todo %d"}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := doJSON(t, e, http.MethodGet, "/api/v1/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, float64(3), body["count"])
	assert.Equal(t, float64(20), body["limit"]) // default page size
	assert.Len(t, body["todos"].([]interface{}), 3)

	rec, body = doJSON(t, e, http.MethodGet, "/api/v1/todos?limit=2&offset=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/todos?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTodosCompletedFilter(t *testing.T) {
	e := newTestAPI(t)

	rec, created := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "done soon"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "still open"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	id := created["id"].(string)
	rec, _ = doJSON(t, e, http.MethodPut, "/api/v1/todos/"+id,
		`{"title": "done soon", "completed": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, e, http.MethodGet, "/api/v1/todos?completed=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), body["count"])

	todos := body["todos"].([]interface{})
	assert.Equal(t, "done soon", todos[0].(map[string]interface{})["title"])
}

func TestGetTodo(t *testing.T) {
	e := newTestAPI(t)

	_, created := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "find me"}`)
	id := created["id"].(string)

	rec, body := doJSON(t, e, http.MethodGet, "/api/v1/todos/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "find me", body["title"])

	// Well-formed but unknown id.
	rec, body = doJSON(t, e, http.MethodGet, "/api/v1/todos/6f1c6b66-4767-4f0c-9c53-4d4cb3b6b4a2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Todo not found", body["message"])

	// Not a UUID at all: rejected before touching the database.
	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/todos/42", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTodo(t *testing.T) {
	e := newTestAPI(t)

	_, created := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "before"}`)
	id := created["id"].(string)

	rec, body := doJSON(t, e, http.MethodPut, "/api/v1/todos/"+id,
		`{"title": "after", "description": "changed", "completed": true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "after", body["title"])
	assert.Equal(t, true, body["completed"])

	rec, _ = doJSON(t, e, http.MethodPut, "/api/v1/todos/6f1c6b66-4767-4f0c-9c53-4d4cb3b6b4a2",
		`{"title": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTodo(t *testing.T) {
	e := newTestAPI(t)

	_, created := doJSON(t, e, http.MethodPost, "/api/v1/todos", `{"title": "bye"}`)
	id := created["id"].(string)

	rec, _ := doJSON(t, e, http.MethodDelete, "/api/v1/todos/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, e, http.MethodGet, "/api/v1/todos/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/v1/todos/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	e := newTestAPI(t)

	rec, _ := doJSON(t, e, http.MethodGet, "/", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
