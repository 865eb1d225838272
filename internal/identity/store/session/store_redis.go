package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

const keyPrefix = "alphaseek:session:"

// RedisStore persists sessions in Redis. The key TTL mirrors the session
// expiry so expired sessions evict themselves; revoked sessions are kept
// until expiry so repeated revocations stay observable as no-ops rather than
// not-founds.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID id.SessionID) string {
	return keyPrefix + sessionID.String()
}

func (s *RedisStore) Create(ctx context.Context, sess *models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired: %w", sentinel.ErrInvalidState)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// RevokeIfActive flips the session to revoked under WATCH so concurrent
// revocations cannot resurrect an older state.
func (s *RedisStore) RevokeIfActive(ctx context.Context, sessionID id.SessionID, now time.Time) error {
	key := sessionKey(sessionID)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
			}
			return fmt.Errorf("load session: %w", err)
		}

		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if sess.CanRevoke() != nil {
			return nil
		}
		sess.ApplyRevocation(now)

		payload, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		ttl := time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}

	for i := 0; i < 3; i++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("revoke session: too much contention: %w", sentinel.ErrUnavailable)
}

// DeleteExpired is a no-op on Redis; key TTLs handle expiry.
func (s *RedisStore) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}
