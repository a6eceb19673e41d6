package httpx

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
)

func TestDecodeJSON_AbsentBodyIsBadRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property", nil)
	w := httptest.NewRecorder()

	var dst struct{}
	ok := DecodeJSON(w, r, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Corpo della richiesta mancante"}`, w.Body.String())
}

func TestDecodeJSON_MalformedBodyIsSafeInternalError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property", bytes.NewBufferString("{bad"))
	w := httptest.NewRecorder()

	var dst struct{}
	ok := DecodeJSON(w, r, &dst)
	assert.False(t, ok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Errore interno del server"}`, w.Body.String())
}

func TestWriteError_RendersStableEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"unauthorized", apperrors.Unauthorized("Token di autorizzazione mancante"), 401, `{"error":"Token di autorizzazione mancante"}`},
		{"invalid input", apperrors.InvalidInput("URL non valido"), 400, `{"error":"URL non valido"}`},
		{"upstream rejection relays status", apperrors.UpstreamRejected(429, "Troppi tentativi"), 429, `{"error":"Troppi tentativi"}`},
		{"transport failure", apperrors.UpstreamUnreachable("Errore di comunicazione con il server", errors.New("dial tcp")), 500, `{"error":"Errore di comunicazione con il server"}`},
		{"unknown error", errors.New("boom"), 500, `{"error":"Errore interno del server"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"n": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"n":1}`, w.Body.String())
}

func TestWriteRaw_EchoesContentTypeWithJSONFallback(t *testing.T) {
	w := httptest.NewRecorder()
	WriteRaw(w, http.StatusCreated, "application/problem+json", []byte(`{"type":"conflict"}`))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"type":"conflict"}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteRaw(w, http.StatusOK, "", []byte(`{}`))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
