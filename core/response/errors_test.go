package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/core/response"
)

// statusErr carries a status code without being an HTTPError.
type statusErr struct {
	status int
	msg    string
}

func (e statusErr) Error() string   { return e.msg }
func (e statusErr) StatusCode() int { return e.status }

// errorBody mirrors the JSON shape WriteError produces.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHTTPErrorValueSemantics(t *testing.T) {
	t.Parallel()

	t.Run("with_message_returns_copy", func(t *testing.T) {
		t.Parallel()

		custom := response.ErrNotFound.WithMessage("project not found")

		assert.Equal(t, "project not found", custom.Message)
		assert.Equal(t, http.StatusNotFound, custom.Status)
		assert.Equal(t, http.StatusText(http.StatusNotFound), response.ErrNotFound.Message)
	})

	t.Run("with_details_merges", func(t *testing.T) {
		t.Parallel()

		first := response.ErrBadRequest.WithDetails(map[string]any{"field": "email"})
		second := first.WithDetails(map[string]any{"reason": "format"})

		assert.Equal(t, map[string]any{"field": "email"}, first.Details)
		assert.Equal(t, map[string]any{"field": "email", "reason": "format"}, second.Details)
		assert.Nil(t, response.ErrBadRequest.Details)
	})

	t.Run("with_error_records_cause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("row not found")
		custom := response.ErrNotFound.WithError(cause)

		assert.Equal(t, map[string]any{"cause": "row not found"}, custom.Details)
		assert.Nil(t, response.ErrNotFound.Details)
	})

	t.Run("implements_error", func(t *testing.T) {
		t.Parallel()

		err := response.ErrConflict.WithMessage("slug taken")

		assert.Equal(t, "slug taken", err.Error())
		assert.Equal(t, http.StatusConflict, err.StatusCode())
	})
}

func TestPredefinedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    response.HTTPError
		status int
		code   string
	}{
		{response.ErrBadRequest, http.StatusBadRequest, "bad_request"},
		{response.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{response.ErrNotFound, http.StatusNotFound, "not_found"},
		{response.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
		{response.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "request_entity_too_large"},
		{response.ErrInternalServerError, http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, http.StatusText(tt.status), tt.err.Message)
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("http_error_used_as_is", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/projects", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, response.ErrConflict.WithMessage("slug taken"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		body := decodeError(t, w)
		assert.Equal(t, "conflict", body.Code)
		assert.Equal(t, "slug taken", body.Message)
	})

	t.Run("wrapped_http_error_unwraps", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/projects/42", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, fmt.Errorf("load project: %w", response.ErrNotFound))

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Code)
	})

	t.Run("client_status_attaches_cause", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("POST", "/projects", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, statusErr{http.StatusUnprocessableEntity, "name is required"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, "unprocessable_entity", body.Code)
		assert.Equal(t, "name is required", body.Details["cause"])
	})

	t.Run("server_status_stays_generic", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/projects", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, statusErr{http.StatusServiceUnavailable, "pgbouncer down"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, "service_unavailable", body.Code)
		assert.NotContains(t, body.Message, "pgbouncer")
		assert.Nil(t, body.Details)
	})

	t.Run("unknown_status_collapses_to_internal", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, statusErr{499, "client closed request"})

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_server_error", decodeError(t, w).Code)
	})

	t.Run("plain_error_never_leaks", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()

		err := response.WriteError(w, req, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		body := decodeError(t, w)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Message)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
		assert.Nil(t, body.Details)
	})
}
