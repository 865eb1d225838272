package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	identity "alphaseek/internal/identity/models"
	"alphaseek/internal/transport/http/shared"
	dErrors "alphaseek/pkg/domain-errors"
)

// PrincipalResolver narrows the identity resolver to the read-only schemes
// the portfolio surface accepts.
type PrincipalResolver interface {
	ResolveFromLinkToken(ctx context.Context, rawToken string) (identity.LinkPrincipal, error)
	ResolveFromRawEmail(ctx context.Context, rawEmail string) (identity.EmailPrincipal, error)
}

// RegisterPortfolio mounts the unauthenticated read surface. A secret manage
// link or a known email grants listing, never mutation; those routes require
// a session.
func (h *Handler) RegisterPortfolio(r chi.Router, resolver PrincipalResolver) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			h.portfolioByKey(w, req, resolver)
		})
		r.Post("/locate", func(w http.ResponseWriter, req *http.Request) {
			h.portfolioByEmail(w, req, resolver)
		})
	})
}

func (h *Handler) portfolioByKey(w http.ResponseWriter, r *http.Request, resolver PrincipalResolver) {
	principal, err := resolver.ResolveFromLinkToken(r.Context(), r.URL.Query().Get("key"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.writePortfolio(w, r, principal)
}

type locateRequest struct {
	Email string `json:"email"`
}

func (h *Handler) portfolioByEmail(w http.ResponseWriter, r *http.Request, resolver PrincipalResolver) {
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return
	}

	principal, err := resolver.ResolveFromRawEmail(r.Context(), req.Email)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.writePortfolio(w, r, principal)
}

func (h *Handler) writePortfolio(w http.ResponseWriter, r *http.Request, principal identity.Principal) {
	subs, err := h.ledger.ListActive(r.Context(), principal)
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
