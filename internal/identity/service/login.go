package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"alphaseek/internal/identity/device"
	"alphaseek/internal/identity/models"
	"alphaseek/internal/identity/notify"
	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
	"alphaseek/pkg/email"
	"alphaseek/pkg/platform/sentinel"
	"alphaseek/pkg/requestcontext"
	"alphaseek/pkg/secrets"
)

// defaultRedirect is where a completed login lands when the caller named no
// destination.
const defaultRedirect = "/manage"

// InitiatePasswordlessLogin issues a single-use sign-in link bound to a
// post-login redirect destination and hands it to the link sender. The link
// row is written before the send; a failed send leaves an unusable row the
// sweeper collects, never a half-sent message.
func (r *Resolver) InitiatePasswordlessLogin(ctx context.Context, rawEmail, redirectTarget string) error {
	if err := email.Validate(rawEmail); err != nil {
		return err
	}
	addr := email.Normalize(rawEmail)
	redirect := sanitizeRedirect(redirectTarget)

	secret, err := secrets.Generate()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate link secret")
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash link secret")
	}

	now := requestcontext.Now(ctx)
	link := &models.LoginLink{
		ID:         id.LoginLinkID(uuid.New()),
		Email:      addr,
		SecretHash: hash,
		RedirectTo: redirect,
		CreatedAt:  now,
		ExpiresAt:  now.Add(r.loginLinkTTL),
	}
	if err := r.links.Create(ctx, link); err != nil {
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "failed to store sign-in link")
	}

	linkURL := r.baseURL + "/auth/callback?token=" + models.FormatLoginToken(link.ID, secret)
	if err := r.sender.SendSignInLink(ctx, addr, linkURL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "sign-in link delivery failed")
	}

	r.metrics.IncrementLoginLinksIssued()
	r.logger.InfoContext(ctx, "passwordless login initiated",
		"email", addr,
		"link_id", link.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// CompleteLogin consumes a sign-in link and establishes an authenticated
// session. Returns the session, a signed session token for the transport to
// hand out, and the redirect destination bound at issue time.
func (r *Resolver) CompleteLogin(ctx context.Context, rawToken string) (*models.Session, string, string, error) {
	linkID, secret, err := models.SplitLoginToken(rawToken)
	if err != nil {
		return nil, "", "", err
	}

	link, err := r.links.FindByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", "", dErrors.New(dErrors.CodeInvalidLink, "unrecognized sign-in link")
		}
		return nil, "", "", dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "link store unreachable")
	}
	if err := secrets.Verify(secret, link.SecretHash); err != nil {
		// Deliberately the same answer as an unknown link id.
		return nil, "", "", dErrors.New(dErrors.CodeInvalidLink, "unrecognized sign-in link")
	}

	now := requestcontext.Now(ctx)
	link, err = r.links.Consume(ctx, linkID, now)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrExpired), errors.Is(err, sentinel.ErrAlreadyUsed):
			return nil, "", "", dErrors.New(dErrors.CodeInvalidLink, "sign-in link expired or already used")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, "", "", dErrors.New(dErrors.CodeInvalidLink, "unrecognized sign-in link")
		default:
			return nil, "", "", dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "link store unreachable")
		}
	}

	user, err := r.findOrCreateUser(ctx, link.Email)
	if err != nil {
		return nil, "", "", err
	}

	sess := models.NewSession(
		id.SessionID(uuid.New()),
		user.ID,
		user.Email,
		device.DisplayName(requestcontext.UserAgent(ctx)),
		now,
		r.sessionTTL,
	)
	if err := r.sessions.Create(ctx, sess); err != nil {
		return nil, "", "", dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "failed to store session")
	}

	signed, err := r.tokens.GenerateSessionToken(user.ID, sess.ID, user.Email, r.sessionTTL)
	if err != nil {
		return nil, "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}

	r.notifier.Publish(notify.Event{Type: notify.EventSessionStarted, Session: *sess})
	r.metrics.IncrementLoginsCompleted()
	r.logger.InfoContext(ctx, "login completed",
		"user_id", user.ID.String(),
		"session_id", sess.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	return sess, signed, link.RedirectTo, nil
}

// TerminateSession invalidates the caller's session. Idempotent: terminating
// an absent or already-revoked session is not an error.
func (r *Resolver) TerminateSession(ctx context.Context) error {
	sessionID := requestcontext.SessionID(ctx)
	if sessionID.IsNil() {
		return nil
	}

	now := requestcontext.Now(ctx)
	if err := r.sessions.RevokeIfActive(ctx, sessionID, now); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "session store unreachable")
	}

	if sess, err := r.sessions.FindByID(ctx, sessionID); err == nil {
		r.notifier.Publish(notify.Event{Type: notify.EventSessionEnded, Session: *sess})
	}
	r.metrics.IncrementSessionsTerminated()
	return nil
}

// SweepExpired deletes dead sign-in links and expired sessions. Called by the
// background sweeper, never by request handlers.
func (r *Resolver) SweepExpired(ctx context.Context) (int, error) {
	now := requestcontext.Now(ctx)
	links, err := r.links.DeleteExpired(ctx, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "link sweep failed")
	}
	sessions, err := r.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return links, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "session sweep failed")
	}
	return links + sessions, nil
}

func (r *Resolver) findOrCreateUser(ctx context.Context, addr string) (*models.User, error) {
	now := requestcontext.Now(ctx)

	user, err := r.users.FindByEmail(ctx, addr)
	if err == nil {
		if err := r.users.RecordLogin(ctx, user.ID, now); err != nil {
			r.logger.WarnContext(ctx, "failed to record login time", "error", err, "user_id", user.ID.String())
		}
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "user store unreachable")
	}

	user = &models.User{
		ID:          id.UserID(uuid.New()),
		Email:       addr,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	if err := r.users.Create(ctx, user); err != nil {
		// Concurrent first login for the same address: take the row that won.
		if errors.Is(err, sentinel.ErrConflict) {
			existing, findErr := r.users.FindByEmail(ctx, addr)
			if findErr != nil {
				return nil, dErrors.Wrap(findErr, dErrors.CodeProviderUnavailable, "user store unreachable")
			}
			return existing, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "failed to create user")
	}
	return user, nil
}

// sanitizeRedirect keeps post-login redirects on this origin. Anything that
// is not a local absolute path collapses to the default.
func sanitizeRedirect(target string) string {
	if target == "" {
		return defaultRedirect
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return defaultRedirect
	}
	return target
}
