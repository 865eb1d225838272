package models

import (
	"time"

	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
)

type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "active"
	SessionStatusRevoked SessionStatus = "revoked"
)

// Session is one authenticated browser/API session.
//
// Invariants:
//   - UserID and Email are set at creation and immutable
//   - Status transitions active → revoked only
//   - A session past ExpiresAt is treated as absent even when still stored
type Session struct {
	ID         id.SessionID  `json:"id"`
	UserID     id.UserID     `json:"user_id"`
	Email      string        `json:"email"`
	Device     string        `json:"device,omitempty"`
	Status     SessionStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	ExpiresAt  time.Time     `json:"expires_at"`
	LastSeenAt time.Time     `json:"last_seen_at"`
	RevokedAt  *time.Time    `json:"revoked_at,omitempty"`
}

// IsActive reports whether the session grants access at the given instant.
func (s *Session) IsActive(now time.Time) bool {
	return s.Status == SessionStatusActive && now.Before(s.ExpiresAt)
}

// CanRevoke checks the active → revoked transition is available.
func (s *Session) CanRevoke() error {
	if s.Status != SessionStatusActive {
		return dErrors.New(dErrors.CodeInvariantViolation, "session is already revoked")
	}
	return nil
}

// ApplyRevocation transitions the session to revoked. Call CanRevoke first.
func (s *Session) ApplyRevocation(now time.Time) {
	s.Status = SessionStatusRevoked
	s.RevokedAt = &now
}

func NewSession(sessionID id.SessionID, userID id.UserID, email, device string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:         sessionID,
		UserID:     userID,
		Email:      email,
		Device:     device,
		Status:     SessionStatusActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		LastSeenAt: now,
	}
}
