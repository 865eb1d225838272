package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in memory for tests and dev runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.Session
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionID]*models.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[sessionID]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
}

// RevokeIfActive transitions the session to revoked. Revoking an already
// revoked session is not an error; the transition simply does not reapply.
// An absent session returns ErrNotFound so callers can stay idempotent at
// their own layer.
func (s *InMemoryStore) RevokeIfActive(_ context.Context, sessionID id.SessionID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	if sess.CanRevoke() != nil {
		return nil
	}
	sess.ApplyRevocation(now)
	return nil
}

// DeleteExpired removes sessions past their deadline, returning the count.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, key)
			deleted++
		}
	}
	return deleted, nil
}
