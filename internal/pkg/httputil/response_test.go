package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	Conflict(w, "busy")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "busy", body.Error)
}

func TestInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestDecode(t *testing.T) {
	var dst struct {
		Action string `json:"action"`
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"delete"}`))
	require.True(t, Decode(w, r, &dst))
	assert.Equal(t, "delete", dst.Action)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.False(t, Decode(w, r, &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorCode(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorCode(w, http.StatusConflict, "run_in_progress", "busy")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "run_in_progress", body.Code)
	assert.Equal(t, "busy", body.Error)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=5&bad=x&neg=-1", nil)

	n, err := QueryInt(r, "limit", 20, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = QueryInt(r, "missing", 20, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = QueryInt(r, "bad", 0, 0)
	assert.EqualError(t, err, "bad must be an integer >= 0")

	_, err = QueryInt(r, "neg", 0, 0)
	assert.Error(t, err)
}
