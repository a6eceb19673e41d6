// Package httpx provides the gateway's HTTP surface: the credential-forwarding
// proxy handlers, session endpoints, and shared middleware.
package httpx

import (
	"net/http"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/http/validation"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

const invalidURLMessage = "URL non valido"

// AnalyzeHandlers proxies property-analysis requests upstream with the
// session credential attached.
type AnalyzeHandlers struct {
	Upstream *upstream.Client
	Sessions *session.Store
}

type analyzePropertyRequest struct {
	URL string `json:"url"`
}

// AnalyzeProperty validates the listing URL and forwards the request.
// Validation failures are rejected locally without an upstream call.
func (h *AnalyzeHandlers) AnalyzeProperty(w http.ResponseWriter, r *http.Request) {
	var req analyzePropertyRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if msg := validation.First(req.URL,
		validation.Required(invalidURLMessage),
		validation.AbsoluteURL(invalidURLMessage),
	); msg != "" {
		WriteError(w, apperrors.InvalidInput(msg))
		return
	}

	res, err := h.Upstream.Do(r.Context(), upstream.Request{
		Method: http.MethodPost,
		Path:   "/analyze-property",
		Token:  h.Sessions.Credential(),
		JSON:   req,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteRaw(w, res.Status, res.ContentType, res.Body)
}
