package handler

import (
	"net/http"
	"time"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/service"
)

// SessionHandler issues and clears the session cookie
type SessionHandler struct {
	sessions   *service.SessionService
	production bool
}

// SessionHandlerConfig holds configuration for the session handler
type SessionHandlerConfig struct {
	Sessions *service.SessionService
	// Production selects cross-site cookie attributes (Secure, SameSite=None).
	Production bool
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(cfg SessionHandlerConfig) *SessionHandler {
	return &SessionHandler{
		sessions:   cfg.Sessions,
		production: cfg.Production,
	}
}

// cookie returns the session cookie with the environment's attributes
func (h *SessionHandler) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	}
	if h.production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// Issue handles POST /jwt
func (h *SessionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var payload model.Document
	if problem := decodeDocument(w, r, &payload); problem != nil {
		WriteError(w, problem)
		return
	}

	token, err := h.sessions.Issue(r.Context(), payload)
	if err != nil {
		writeServiceError(w, r, err, "issue session")
		return
	}

	http.SetCookie(w, h.cookie(token))
	WriteJSON(w, http.StatusOK, model.SessionResult{Success: true})
}

// Logout handles POST /logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c := h.cookie("")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)

	http.SetCookie(w, c)
	WriteJSON(w, http.StatusOK, model.LogoutResult{LogoutSuccess: true})
}
