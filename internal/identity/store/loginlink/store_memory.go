package loginlink

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

// translateConsumeError converts domain validation errors into sentinel errors
// per the store boundary contract.
func translateConsumeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "expired"):
		return fmt.Errorf("%s: %w", msg, sentinel.ErrExpired)
	case strings.Contains(msg, "already used"):
		return fmt.Errorf("%s: %w", msg, sentinel.ErrAlreadyUsed)
	default:
		return fmt.Errorf("%s: %w", msg, sentinel.ErrInvalidState)
	}
}

// InMemoryStore keeps sign-in links in memory for tests and dev runs.
type InMemoryStore struct {
	mu    sync.Mutex
	links map[id.LoginLinkID]*models.LoginLink
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{links: make(map[id.LoginLinkID]*models.LoginLink)}
}

func (s *InMemoryStore) Create(_ context.Context, link *models.LoginLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *link
	s.links[link.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, linkID id.LoginLinkID) (*models.LoginLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if link, ok := s.links[linkID]; ok {
		cp := *link
		return &cp, nil
	}
	return nil, fmt.Errorf("login link not found: %w", sentinel.ErrNotFound)
}

// Consume burns the link if it is still valid at the given instant. Single
// use is enforced under the store lock: of two concurrent consumers exactly
// one succeeds, the other observes ErrAlreadyUsed.
func (s *InMemoryStore) Consume(_ context.Context, linkID id.LoginLinkID, now time.Time) (*models.LoginLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[linkID]
	if !ok {
		return nil, fmt.Errorf("login link not found: %w", sentinel.ErrNotFound)
	}
	if err := link.ValidateForConsume(now); err != nil {
		return nil, translateConsumeError(err)
	}
	link.MarkConsumed(now)
	cp := *link
	return &cp, nil
}

// DeleteExpired removes links past their deadline or already consumed,
// returning the count. The instant is injected for testability.
func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, link := range s.links {
		if now.After(link.ExpiresAt) || link.ConsumedAt != nil {
			delete(s.links, key)
			deleted++
		}
	}
	return deleted, nil
}
