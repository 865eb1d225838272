// Package handler exposes the passwordless auth surface: requesting a sign-in
// link, completing it, and ending the session.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"alphaseek/internal/identity/service"
	"alphaseek/internal/platform/middleware"
	"alphaseek/internal/transport/http/shared"
	dErrors "alphaseek/pkg/domain-errors"
)

type Handler struct {
	resolver  *service.Resolver
	validator middleware.JWTValidator
	secure    bool
	logger    *slog.Logger
}

// New builds the auth handler. secure controls the session cookie's Secure
// flag; pass true whenever the public base URL is https.
func New(resolver *service.Resolver, validator middleware.JWTValidator, secure bool, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, validator: validator, secure: secure, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login-link", h.requestLoginLink)
		r.Get("/callback", h.callback)
		r.With(middleware.RequireAuth(h.validator, h.logger)).Post("/logout", h.logout)
	})
}

type loginLinkRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

func (h *Handler) requestLoginLink(w http.ResponseWriter, r *http.Request) {
	var req loginLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	if err := h.resolver.InitiatePasswordlessLogin(r.Context(), req.Email, req.RedirectTo); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	sess, signed, redirect, err := h.resolver.CompleteLogin(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	// Browsers follow the redirect; API clients ask for JSON and keep the
	// token for the Authorization header.
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		shared.WriteJSON(w, http.StatusOK, map[string]string{
			"token":       signed,
			"redirect_to": redirect,
		})
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.resolver.TerminateSession(r.Context()); err != nil {
		shared.WriteError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
