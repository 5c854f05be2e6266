package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migherize/go-api-boilerplate/internal/validation"
)

func runWithRequestID(t *testing.T, inbound string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(RequestIDHeader, inbound)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error { return nil })
	require.NoError(t, handler(c))

	return c, rec
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	c, rec := runWithRequestID(t, "")

	id := GetRequestID(c)
	assert.True(t, validation.IsValidUUID(id), id)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDReusesInboundHeader(t *testing.T) {
	c, rec := runWithRequestID(t, "upstream-id-123")

	assert.Equal(t, "upstream-id-123", GetRequestID(c))
	assert.Equal(t, "upstream-id-123", rec.Header().Get(RequestIDHeader))
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	logger := GetLogger(c)
	require.NotNil(t, logger)

	// Must not panic even though EnhanceContext never ran.
	logger.Info().Msg("ignored")
}
