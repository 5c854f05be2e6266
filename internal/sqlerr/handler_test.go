package sqlerr

import (
	"database/sql"
	"net/http"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/migherize/go-api-boilerplate/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorPostgresUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        `duplicate key value violates unique constraint "todos_title_key"`,
		TableName:      "todos",
		ConstraintName: "todos_title_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Todo with this Title already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorPostgresNotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		Message:    `null value in column "title" violates not-null constraint`,
		TableName:  "todos",
		ColumnName: "title",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Title is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
	assert.Equal(t, "is required", httpErr.Errors[0].Error)
}

func TestHandleErrorPostgresForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		Message:    `insert or update on table "todos" violates foreign key constraint`,
		TableName:  "todos",
		ColumnName: "user_id",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_NOT_FOUND", httpErr.Code)

	// Column "user_id" wins over the table for entity naming.
	assert.Equal(t, "The referenced User does not exist", httpErr.Message)
}

func TestHandleErrorMySQLDuplicateEntry(t *testing.T) {
	myErr := &gomysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'buy milk' for key 'todos.todos_title_key'",
	}

	httpErr := asHTTPError(t, HandleError(myErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Todo with this Title already exists", httpErr.Message)
}

func TestHandleErrorMySQLColumnCannotBeNull(t *testing.T) {
	myErr := &gomysql.MySQLError{
		Number:  1048,
		Message: "Column 'title' cannot be null",
	}

	httpErr := asHTTPError(t, HandleError(myErr))

	assert.Equal(t, "RECORD_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Title is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
}

// TestHandleErrorSQLiteUniqueViolation exercises the sqlite branch with
// a real constraint violation instead of a hand-built error, since the
// driver does not export a constructor for its error type.
func TestHandleErrorSQLiteUniqueViolation(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared&_pragma=foreign_keys(1)")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE todos (id TEXT PRIMARY KEY, title TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (id, title) VALUES ('1', 'buy milk')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (id, title) VALUES ('2', 'buy milk')`)
	require.Error(t, err)

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "TODO_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Todo with this Title already exists", httpErr.Message)
}

func TestHandleErrorSQLiteNotNullViolation(t *testing.T) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE notes (id TEXT PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO notes (id, body) VALUES ('1', NULL)`)
	require.Error(t, err)

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, "NOTE_REQUIRED", httpErr.Code)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "body", httpErr.Errors[0].Field)
}

func TestHandleErrorNoRowsWithTableContext(t *testing.T) {
	err := errors.Wrap(sql.ErrNoRows, "table:todos:")

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Todo not found", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNoRowsWithoutContext(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(sql.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
	assert.False(t, httpErr.Override)
}

func TestHandleErrorPassesThroughHTTPErrors(t *testing.T) {
	original := errs.NewForbiddenError("nope", false)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknownErrorsBecome500(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		want       string
	}{
		{"todos_title_key", "title"},
		{"todos_title_ukey", "title"},
		{"unique_todos_title", "title"},
		{"uq_todos_title", "title"},
		{"PRIMARY", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractColumnForUniqueViolation(tt.constraint), tt.constraint)
	}
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "TODO_ALREADY_EXISTS", generateErrorCode("todos", UniqueViolation))
	assert.Equal(t, "USER_NOT_FOUND", generateErrorCode("users", ForeignKeyViolation))
	assert.Equal(t, "RECORD_REQUIRED", generateErrorCode("", NotNullViolation))
	assert.Equal(t, "NOTE_ERROR", generateErrorCode("notes", Other))
}
