package service

import (
	"context"
	"errors"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
	"alphaseek/pkg/email"
	"alphaseek/pkg/platform/sentinel"
	"alphaseek/pkg/requestcontext"
)

// ResolveFromSession yields the strongest principal: an authenticated session.
// The session ID comes from the validated token in the request context; the
// store remains authoritative so revocation cuts access before token expiry.
//
// Callers receiving unauthorized must redirect to the entry flow rather than
// render protected content. No store access happens for anonymous callers.
func (r *Resolver) ResolveFromSession(ctx context.Context) (models.SessionPrincipal, error) {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return models.SessionPrincipal{}, dErrors.New(dErrors.CodeUnauthorized, "no authenticated session")
	}

	sess, err := r.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.SessionPrincipal{}, dErrors.New(dErrors.CodeUnauthorized, "session no longer valid")
		}
		return models.SessionPrincipal{}, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "session store unreachable")
	}
	if !sess.IsActive(requestcontext.Now(ctx)) {
		return models.SessionPrincipal{}, dErrors.New(dErrors.CodeUnauthorized, "session no longer valid")
	}

	return models.SessionPrincipal{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Email:     sess.Email,
	}, nil
}

// ResolveFromLinkToken authenticates knowledge of a per-row secret link, the
// legacy access scheme. The token is the subscription row ID; a point lookup
// maps it to the owning email. Strictly weaker than session resolution: it
// proves possession of the link, not control of the mailbox, so the resulting
// principal is read-only.
func (r *Resolver) ResolveFromLinkToken(ctx context.Context, rawToken string) (models.LinkPrincipal, error) {
	if rawToken == "" {
		return models.LinkPrincipal{}, dErrors.New(dErrors.CodeInvalidLink, "missing link token")
	}
	rowID, err := id.ParseSubscriptionID(rawToken)
	if err != nil {
		return models.LinkPrincipal{}, dErrors.New(dErrors.CodeInvalidLink, "unrecognized link token")
	}

	// Row IDs are unique; the point lookup matches one row or none.
	owner, err := r.reader.OwnerEmailByRowID(ctx, rowID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.LinkPrincipal{}, dErrors.New(dErrors.CodeInvalidLink, "unrecognized link token")
		}
		return models.LinkPrincipal{}, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "store unreachable")
	}

	return models.LinkPrincipal{Email: owner, Token: rowID}, nil
}

// ResolveFromRawEmail accepts a free-typed address with no proof of control.
// It only confirms an active portfolio exists so the caller can bootstrap a
// redirect into the link flow; the resulting principal must never authorize
// mutation.
func (r *Resolver) ResolveFromRawEmail(ctx context.Context, rawEmail string) (models.EmailPrincipal, error) {
	if err := email.Validate(rawEmail); err != nil {
		return models.EmailPrincipal{}, err
	}
	addr := email.Normalize(rawEmail)

	hasActive, err := r.reader.HasActiveByEmail(ctx, addr)
	if err != nil {
		return models.EmailPrincipal{}, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "store unreachable")
	}
	if !hasActive {
		return models.EmailPrincipal{}, dErrors.New(dErrors.CodeNoActivePortfolio, "no active portfolio for this email")
	}

	return models.EmailPrincipal{Email: addr}, nil
}
