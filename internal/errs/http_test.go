package errs

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores("Internal Server Error"))
	assert.Equal(t, "OK", MakeUpperCaseWithUnderscores("ok"))
}

func TestHTTPErrorIs(t *testing.T) {
	err := NewNotFoundError("Todo not found", true, nil)

	// Is matches on type, not on content, so any two HTTPErrors satisfy
	// errors.Is against each other.
	assert.True(t, errors.Is(err, &HTTPError{}))
	assert.True(t, errors.Is(err, NewInternalServerError()))
	assert.False(t, errors.Is(errors.New("plain"), err))
}

func TestHTTPErrorWithMessage(t *testing.T) {
	base := NewUnauthorizedError("Unauthorized", false)
	changed := base.WithMessage("Session expired")

	assert.Equal(t, "Session expired", changed.Message)
	assert.Equal(t, base.Code, changed.Code)
	assert.Equal(t, base.Status, changed.Status)

	// The original stays untouched.
	assert.Equal(t, "Unauthorized", base.Message)
}

func TestNewBadRequestErrorCustomCode(t *testing.T) {
	code := "TODO_ALREADY_EXISTS"
	err := NewBadRequestError("A Todo with this Title already exists", true, &code, nil, nil)

	assert.Equal(t, "TODO_ALREADY_EXISTS", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, err.Override)

	// Without a code it falls back to the status text.
	fallback := NewBadRequestError("nope", false, nil, nil, nil)
	assert.Equal(t, "BAD_REQUEST", fallback.Code)
}

func TestHTTPErrorJSONShape(t *testing.T) {
	err := NewBadRequestError("Validation failed", true, nil,
		[]FieldError{{Field: "title", Error: "is required"}},
		&Action{Type: ActionTypeRedirect, Message: "log in again", Value: "/login"},
	)

	raw, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "BAD_REQUEST", decoded["code"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["status"])
	assert.Equal(t, true, decoded["override"])

	fields := decoded["errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "title", fields[0].(map[string]interface{})["field"])

	action := decoded["action"].(map[string]interface{})
	assert.Equal(t, "redirect", action["type"])
}
