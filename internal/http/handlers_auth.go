package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/ospitek/ui-gateway/internal/domain/auth"
	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/session"
	"github.com/ospitek/ui-gateway/internal/upstream"
)

const missingCredentialsMessage = "Credenziali mancanti"

// AuthHandlers proxies login/logout upstream and keeps the session store in
// sync with the outcome.
type AuthHandlers struct {
	Upstream *upstream.Client
	Sessions *session.Store
	Logger   *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                  `json:"token"`
	User  *domainauth.UserProfile `json:"user"`
}

// Login forwards the credentials upstream and, on success, adopts the issued
// token and profile into the session store.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteError(w, apperrors.InvalidInput(missingCredentialsMessage))
		return
	}

	res, err := h.Upstream.Do(r.Context(), upstream.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		JSON:   req,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	var payload loginResponse
	if err := res.Decode(&payload); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, badPayloadMessage))
		return
	}
	if payload.Token == "" {
		WriteError(w, apperrors.Internal(badPayloadMessage))
		return
	}

	h.Sessions.SetCredential(r.Context(), payload.Token)
	h.Sessions.SetUser(payload.User)

	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		Hydrated:      true,
		User:          payload.User,
	})
}

// Logout clears the session. The upstream is told best-effort; a failure
// there never blocks the local logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.Sessions.Credential()
	if token != "" {
		if _, err := h.Upstream.Do(r.Context(), upstream.Request{
			Method: http.MethodPost,
			Path:   "/auth/logout",
			Token:  token,
		}); err != nil {
			h.Logger.WarnContext(r.Context(), "upstream logout failed", "error", err)
		}
	}

	h.Sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type statusResponse struct {
	Authenticated bool                    `json:"authenticated"`
	Hydrated      bool                    `json:"hydrated"`
	User          *domainauth.UserProfile `json:"user,omitempty"`
}

// Status reports the settled session state. Hydration is awaited so callers
// never act on a transient logged-out answer during startup.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Ready(r.Context()); err != nil {
		WriteError(w, apperrors.Wrap(err, apperrors.ErrCodeTimeout, badPayloadMessage))
		return
	}

	snapshot := h.Sessions.Snapshot()
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: snapshot.Authenticated(),
		Hydrated:      h.Sessions.Hydrated(),
		User:          snapshot.User,
	})
}
