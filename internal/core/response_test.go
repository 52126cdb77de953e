// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestOK(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeBody(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, env.ErrorCode)
}

func TestPaginated(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2, 3}, 2, 20, 45)

	env := decodeBody(t, rec)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 20, env.Pagination.PageSize)
	assert.Equal(t, 45, env.Pagination.Total)
	assert.Equal(t, 3, env.Pagination.TotalPages)
}

func TestJSONError_AppError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, WeakPasswordError())

	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeBody(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, CodeWeakPassword, env.ErrorCode)
	assert.NotEmpty(t, env.Message)
}

func TestJSONError_WrappedAppError(t *testing.T) {
	t.Parallel()

	// An AppError wrapped by intermediate layers must still surface
	// its own status and code.
	wrapped := fmt.Errorf("register: %w", DuplicateUserError())

	rec := httptest.NewRecorder()
	JSONError(rec, wrapped)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeBody(t, rec)
	assert.Equal(t, CodeUserAlreadyExists, env.ErrorCode)
}

func TestJSONError_UnknownErrorIsInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("connection reset by peer"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	env := decodeBody(t, rec)
	assert.Equal(t, CodeInternalError, env.ErrorCode)
	// Internal details never leak into the caller-facing message.
	assert.NotContains(t, env.Message, "connection reset")
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "ok", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	err := DecodeJSON(req, &dst)
	require.Error(t, err)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidJSON, appErr.Code)

	// An empty body is also not valid JSON.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err = DecodeJSON(req, &dst)
	require.Error(t, err)
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	err := InvalidRefreshTokenError()
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	notFound := UserNotFoundError()
	assert.True(t, errors.Is(notFound, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, notFound.Status)
}
