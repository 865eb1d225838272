package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"alphaseek/internal/subscription/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

// InMemoryStore keeps subscriptions in a map. Used by unit tests and by the
// server when no Postgres URL is configured.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows map[id.SubscriptionID]*models.Subscription
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{rows: make(map[id.SubscriptionID]*models.Subscription)}
}

// dedupeKey mirrors the Postgres partial unique index: rows with a user id
// dedupe on it, legacy rows dedupe on email.
func dedupeKey(sub *models.Subscription) string {
	if !sub.UserID.IsNil() {
		return sub.UserID.String() + "|" + sub.Ticker
	}
	return sub.Email + "|" + sub.Ticker
}

func (s *InMemoryStore) Insert(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := dedupeKey(sub)
	for _, existing := range s.rows {
		if existing.Active && dedupeKey(existing) == key {
			return sentinel.ErrConflict
		}
	}

	cp := *sub
	s.rows[sub.ID] = &cp
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, rowID id.SubscriptionID) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.rows[rowID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *InMemoryStore) ListActiveByOwner(_ context.Context, owner id.OwnerKey) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Subscription
	for _, sub := range s.rows {
		if sub.Active && owner.Matches(sub.UserID, sub.Email) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Ticker < out[j].Ticker
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Deactivate(_ context.Context, rowID id.SubscriptionID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.rows[rowID]
	if !ok {
		return sentinel.ErrNotFound
	}
	sub.Deactivate(now)
	return nil
}

// OwnerEmailByRowID resolves a secret-link token, which is the row id of any
// subscription the owner ever created.
func (s *InMemoryStore) OwnerEmailByRowID(_ context.Context, rowID id.SubscriptionID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.rows[rowID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return sub.Email, nil
}

func (s *InMemoryStore) HasActiveByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.rows {
		if sub.Active && sub.Email == email {
			return true, nil
		}
	}
	return false, nil
}
