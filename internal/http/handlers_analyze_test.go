package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeProperty_InvalidURL(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"success"}`))
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property", bytes.NewBufferString(`{"url":"not-a-url"}`))
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"URL non valido"}`, w.Body.String())
	assert.Zero(t, f.Calls(), "invalid input must be rejected before any upstream call")
}

func TestAnalyzeProperty_MissingURL(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"success"}`))
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"URL non valido"}`, w.Body.String())
	assert.Zero(t, f.Calls())
}

func TestAnalyzeProperty_AbsentBody(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"success"}`))
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property", nil)
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, f.Calls())
}

func TestAnalyzeProperty_ForwardsWithSessionCredential(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"success","score":91}`))
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-abc")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property",
		bytes.NewBufferString(`{"url":"https://example.com/listing/7"}`))
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","score":91}`, w.Body.String())
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, "/analyze-property", f.LastPath())
	assert.Equal(t, "Bearer tok-abc", f.LastAuth())
	assert.JSONEq(t, `{"url":"https://example.com/listing/7"}`, string(f.LastBody()))
}

func TestAnalyzeProperty_RelaysUpstreamRejection(t *testing.T) {
	f := newUpstreamFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"Abbonamento scaduto"}`))
	})
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property",
		bytes.NewBufferString(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Abbonamento scaduto"}`, w.Body.String())
}

func TestAnalyzeProperty_TwoHundredWithFailureMarker(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"error"}`))
	h := &AnalyzeHandlers{Upstream: f.Client, Sessions: newTestSessions(t, "tok-1")}

	r := httptest.NewRequest(http.MethodPost, "/api/analyze-property",
		bytes.NewBufferString(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	h.AnalyzeProperty(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Errore interno del server"}`, w.Body.String())
}
