// Package handler exposes the subscription ledger over HTTP. All routes sit
// behind session auth; weaker identity schemes go through the portfolio
// endpoints instead.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	identity "alphaseek/internal/identity/models"
	"alphaseek/internal/platform/middleware"
	"alphaseek/internal/subscription/models"
	"alphaseek/internal/subscription/service"
	"alphaseek/internal/transport/http/shared"
	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
	"alphaseek/pkg/requestcontext"
)

type Handler struct {
	ledger    *service.Ledger
	validator middleware.JWTValidator
	logger    *slog.Logger
}

func New(ledger *service.Ledger, validator middleware.JWTValidator, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, validator: validator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{subscriptionID}", h.remove)
	})
}

type subscriptionResponse struct {
	ID        string  `json:"id"`
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
	CreatedAt string  `json:"created_at"`
}

func toResponse(sub *models.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        sub.ID.String(),
		Ticker:    sub.Ticker,
		Shares:    sub.Shares,
		CreatedAt: sub.CreatedAt.Format(time.RFC3339),
	}
}

// sessionPrincipal rebuilds the caller identity that RequireAuth stashed in
// the request context.
func sessionPrincipal(r *http.Request) identity.SessionPrincipal {
	ctx := r.Context()
	return identity.SessionPrincipal{
		UserID:    requestcontext.UserID(ctx),
		SessionID: requestcontext.SessionID(ctx),
		Email:     requestcontext.Email(ctx),
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	subs, err := h.ledger.ListActive(r.Context(), sessionPrincipal(r))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	out := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toResponse(sub))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"subscriptions": out})
}

type createRequest struct {
	Ticker string   `json:"ticker"`
	Shares *float64 `json:"shares"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	// Omitted share count means one share, matching the signup form default.
	shares := 1.0
	if req.Shares != nil {
		shares = *req.Shares
	}

	sub, err := h.ledger.Create(r.Context(), sessionPrincipal(r), req.Ticker, shares)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toResponse(sub))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	rowID, err := id.ParseSubscriptionID(chi.URLParam(r, "subscriptionID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "subscription not found"))
		return
	}

	if err := h.ledger.SoftDelete(r.Context(), sessionPrincipal(r), rowID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
