package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
)

const (
	missingBodyMessage = "Corpo della richiesta mancante"
	badPayloadMessage  = "Errore interno del server"
)

// DecodeJSON decodes the request body into dst and handles errors.
// An absent body is the caller's fault (400); a body that fails to parse on a
// JSON route is converted to a safe 500 rather than crashing the handler.
// Returns true on success; on failure the error response is already written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, badPayloadMessage))
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		WriteError(w, apperrors.InvalidInput(missingBodyMessage))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, badPayloadMessage))
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// errorEnvelope is the single error shape every failure renders as.
type errorEnvelope struct {
	Error string `json:"error"`
}

// WriteError renders err in the stable `{"error": message}` envelope.
// Application errors carry their own status and caller-facing message;
// anything else surfaces as a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := badPayloadMessage

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	WriteJSON(w, status, errorEnvelope{Error: message})
}

// WriteRaw relays an upstream payload untouched, echoing its Content-Type.
func WriteRaw(w http.ResponseWriter, code int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		return
	}
}
