package models

import (
	"errors"
	"strings"
	"time"

	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
)

// LoginLink is one issued passwordless sign-in link. The secret travels in the
// email only; at rest we keep a bcrypt hash. Single use, short TTL.
type LoginLink struct {
	ID         id.LoginLinkID `json:"id"`
	Email      string         `json:"email"`
	SecretHash string         `json:"-"`
	RedirectTo string         `json:"redirect_to"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	ConsumedAt *time.Time     `json:"consumed_at,omitempty"`
}

var (
	errLinkExpired  = errors.New("login link expired")
	errLinkConsumed = errors.New("login link already used")
)

// ValidateForConsume checks single-use and TTL invariants at the given
// instant.
func (l *LoginLink) ValidateForConsume(now time.Time) error {
	if l.ConsumedAt != nil {
		return errLinkConsumed
	}
	if now.After(l.ExpiresAt) {
		return errLinkExpired
	}
	return nil
}

// MarkConsumed burns the link. Call ValidateForConsume first.
func (l *LoginLink) MarkConsumed(now time.Time) {
	l.ConsumedAt = &now
}

// FormatLoginToken assembles the opaque token embedded in the sign-in URL:
// "<link id>.<secret>". The id half locates the row, the secret half proves
// possession.
func FormatLoginToken(linkID id.LoginLinkID, secret string) string {
	return linkID.String() + "." + secret
}

// SplitLoginToken reverses FormatLoginToken. The error is deliberately
// uniform: callers must not learn which half was wrong.
func SplitLoginToken(token string) (id.LoginLinkID, string, error) {
	idPart, secret, ok := strings.Cut(token, ".")
	if !ok || secret == "" {
		return id.LoginLinkID{}, "", dErrors.New(dErrors.CodeInvalidLink, "malformed sign-in token")
	}
	linkID, err := id.ParseLoginLinkID(idPart)
	if err != nil {
		return id.LoginLinkID{}, "", dErrors.New(dErrors.CodeInvalidLink, "malformed sign-in token")
	}
	return linkID, secret, nil
}
