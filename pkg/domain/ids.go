// Package domain defines typed identifiers shared across features.
//
// Each ID is a distinct type over uuid.UUID so the compiler rejects passing a
// session ID where a subscription ID is expected. Parse functions enforce the
// trust-boundary invariant that IDs are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "alphaseek/pkg/domain-errors"
)

type (
	// UserID is the stable identifier the session scheme uses as the
	// row-ownership key. It never changes, unlike the email.
	UserID uuid.UUID

	// SessionID identifies one authenticated session.
	SessionID uuid.UUID

	// SubscriptionID identifies one subscription row. Under the legacy link
	// scheme its string form doubles as the bearer link token.
	SubscriptionID uuid.UUID

	// LoginLinkID identifies one issued passwordless sign-in link.
	LoginLinkID uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id SessionID) String() string      { return uuid.UUID(id).String() }
func (id SubscriptionID) String() string { return uuid.UUID(id).String() }
func (id LoginLinkID) String() string    { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id SubscriptionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id LoginLinkID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s)
	return SessionID(u), err
}

func ParseSubscriptionID(s string) (SubscriptionID, error) {
	u, err := parseUUID(s)
	return SubscriptionID(u), err
}

func ParseLoginLinkID(s string) (LoginLinkID, error) {
	u, err := parseUUID(s)
	return LoginLinkID(u), err
}
