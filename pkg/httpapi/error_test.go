package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/clubs/pkg/composables"
)

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, http.StatusBadRequest, "IMPORT_NO_FILE", "no roster file was uploaded", map[string]string{"request_id": "r1"}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "IMPORT_NO_FILE", env.Code)
	require.Equal(t, "r1", env.Meta["request_id"])
}

func TestWriteJSON_NilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusNoContent, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestNotFound_CarriesRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	r = r.WithContext(composables.WithRequestID(r.Context(), "req-9"))
	rec := httptest.NewRecorder()

	NotFound().ServeHTTP(rec, r)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, CodeNotFound, env.Code)
	require.Equal(t, "req-9", env.Meta["request_id"])
	require.Equal(t, "/nope", env.Meta["path"])
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/clubs/api/students:search", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Contains(t, rec.Body.String(), CodeMethodNotAllowed)
}
