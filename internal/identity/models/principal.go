package models

import (
	id "alphaseek/pkg/domain"
)

// IdentityScheme tags how a principal was resolved. The three schemes are an
// evolving trust model, weakest to strongest; callers can audit which level
// they rely on because the schemes are distinct types, never silently merged.
type IdentityScheme string

const (
	// SchemeEmail: a free-typed address with no proof of control. Only good
	// for bootstrapping a redirect into the link flow.
	SchemeEmail IdentityScheme = "email"

	// SchemeLinkToken: knowledge of a per-row secret link. Authenticates the
	// token, not the caller. Read-only, superseded by sessions.
	SchemeLinkToken IdentityScheme = "link_token"

	// SchemeSession: a verified session issued after a passwordless login.
	// The only scheme allowed to authorize mutation.
	SchemeSession IdentityScheme = "session"
)

// Principal is the resolved identity a caller acts as. Read operations accept
// any principal; mutating ledger operations take the SessionPrincipal type
// directly, so the restriction is enforced at compile time.
type Principal interface {
	Scheme() IdentityScheme
	OwnerKey() id.OwnerKey
}

// EmailPrincipal is produced by raw-email resolution.
type EmailPrincipal struct {
	Email string
}

func (p EmailPrincipal) Scheme() IdentityScheme { return SchemeEmail }
func (p EmailPrincipal) OwnerKey() id.OwnerKey  { return id.OwnerKey{Email: p.Email} }

// LinkPrincipal is produced by link-token resolution. Token records which row
// token granted access, for audit logging.
type LinkPrincipal struct {
	Email string
	Token id.SubscriptionID
}

func (p LinkPrincipal) Scheme() IdentityScheme { return SchemeLinkToken }
func (p LinkPrincipal) OwnerKey() id.OwnerKey  { return id.OwnerKey{Email: p.Email} }

// SessionPrincipal is produced by session resolution and is the only variant
// the ledger accepts for create and soft-delete.
type SessionPrincipal struct {
	UserID    id.UserID
	SessionID id.SessionID
	Email     string
}

func (p SessionPrincipal) Scheme() IdentityScheme { return SchemeSession }

func (p SessionPrincipal) OwnerKey() id.OwnerKey {
	return id.OwnerKey{UserID: p.UserID, Email: p.Email}
}

var (
	_ Principal = EmailPrincipal{}
	_ Principal = LinkPrincipal{}
	_ Principal = SessionPrincipal{}
)
