package httpx

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartUpload builds a multipart body with one file part carrying an
// explicit Content-Type.
func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf, w.FormDataContentType()
}

func TestExtractDocument_ForwardsAllowedFile(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{"status":"success","text":"Contratto di locazione"}`))
	h := &DocumentHandlers{Upstream: f.Client}

	body, contentType := multipartUpload(t, "contratto.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
	r := httptest.NewRequest(http.MethodPost, "/api/extract-document", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ExtractDocument(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","text":"Contratto di locazione"}`, w.Body.String())
	assert.Equal(t, 1, f.Calls())
	assert.Equal(t, "/extract-document", f.LastPath())
	// The route is public; no credential is attached.
	assert.Empty(t, f.LastAuth())
}

func TestExtractDocument_MissingFile(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{}`))
	h := &DocumentHandlers{Upstream: f.Client}

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/extract-document", buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ExtractDocument(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"File mancante"}`, w.Body.String())
	assert.Zero(t, f.Calls())
}

func TestExtractDocument_RejectsDisallowedMIME(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{}`))
	h := &DocumentHandlers{Upstream: f.Client}

	body, contentType := multipartUpload(t, "malware.exe", "application/octet-stream", []byte{0x4d, 0x5a})
	r := httptest.NewRequest(http.MethodPost, "/api/extract-document", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ExtractDocument(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Tipo di file non supportato"}`, w.Body.String())
	assert.Zero(t, f.Calls(), "disallowed MIME must be rejected before any upstream call")
}

func TestExtractDocument_AllowsEveryListedType(t *testing.T) {
	types := map[string]string{
		"contratto.pdf":  "application/pdf",
		"contratto.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"contratto.odt":  "application/vnd.oasis.opendocument.text",
		"note.txt":       "text/plain; charset=utf-8",
	}
	for filename, contentType := range types {
		t.Run(filename, func(t *testing.T) {
			f := newUpstreamFixture(t, jsonOK(`{"status":"success"}`))
			h := &DocumentHandlers{Upstream: f.Client}

			body, ct := multipartUpload(t, filename, contentType, []byte("payload"))
			r := httptest.NewRequest(http.MethodPost, "/api/extract-document", body)
			r.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			h.ExtractDocument(w, r)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 1, f.Calls())
		})
	}
}

func TestExtractDocument_RejectsOversizedUpload(t *testing.T) {
	f := newUpstreamFixture(t, jsonOK(`{}`))
	h := &DocumentHandlers{Upstream: f.Client}

	oversized := bytes.Repeat([]byte("a"), maxDocumentBytes+1)
	body, contentType := multipartUpload(t, "grande.txt", "text/plain", oversized)
	r := httptest.NewRequest(http.MethodPost, "/api/extract-document", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ExtractDocument(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"File troppo grande"}`, w.Body.String())
	assert.Zero(t, f.Calls(), "oversized upload must be rejected before any upstream call")
}

func TestExtractDocument_RelaysUpstreamRejection(t *testing.T) {
	f := newUpstreamFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"Documento illeggibile"}`))
	})
	h := &DocumentHandlers{Upstream: f.Client}

	body, contentType := multipartUpload(t, "contratto.pdf", "application/pdf", []byte("%PDF"))
	r := httptest.NewRequest(http.MethodPost, "/api/extract-document", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ExtractDocument(w, r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"Documento illeggibile"}`, w.Body.String())
}
