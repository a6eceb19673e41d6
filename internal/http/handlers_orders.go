package httpx

import (
	"io"
	"net/http"
	"strings"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

const missingTokenMessage = "Token di autorizzazione mancante"

// OrderHandlers proxies print-order requests. The caller supplies its own
// bearer token; the payload is relayed verbatim in both directions.
type OrderHandlers struct {
	Upstream *upstream.Client
}

// CreatePrintOrder relays the request body untouched, requiring only that
// the caller presented an Authorization header.
func (h *OrderHandlers) CreatePrintOrder(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		WriteError(w, apperrors.Unauthorized(missingTokenMessage))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, badPayloadMessage))
		return
	}
	if len(body) == 0 {
		WriteError(w, apperrors.InvalidInput(missingBodyMessage))
		return
	}

	res, err := h.Upstream.Do(r.Context(), upstream.Request{
		Method:   http.MethodPost,
		Path:     "/print-orders/create",
		Token:    token,
		Raw:      body,
		Verbatim: true,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteRaw(w, res.Status, res.ContentType, res.Body)
}

// bearerToken extracts the credential from the Authorization header.
// Both "Bearer <token>" and a bare token value are accepted.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return header
}
