package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

func makeSession(ttl time.Duration) *models.Session {
	return models.NewSession(
		id.SessionID(uuid.New()),
		id.UserID(uuid.New()),
		"a@x.com",
		"Firefox on Windows",
		time.Now(),
		ttl,
	)
}

func TestCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	sess := makeSession(time.Hour)

	require.NoError(t, store.Create(ctx, sess))

	got, err := store.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, models.SessionStatusActive, got.Status)
}

func TestFind_NotFound(t *testing.T) {
	_, err := NewMemory().FindByID(context.Background(), id.SessionID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRevokeIfActive_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	sess := makeSession(time.Hour)
	require.NoError(t, store.Create(ctx, sess))

	now := time.Now()
	require.NoError(t, store.RevokeIfActive(ctx, sess.ID, now))
	require.NoError(t, store.RevokeIfActive(ctx, sess.ID, now), "second revoke is a no-op")

	got, err := store.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusRevoked, got.Status)
	require.NotNil(t, got.RevokedAt)
}

func TestRevokeIfActive_AbsentSession(t *testing.T) {
	err := NewMemory().RevokeIfActive(context.Background(), id.SessionID(uuid.New()), time.Now())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	live := makeSession(time.Hour)
	dead := makeSession(time.Minute)
	require.NoError(t, store.Create(ctx, live))
	require.NoError(t, store.Create(ctx, dead))

	deleted, err := store.DeleteExpired(ctx, time.Now().Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = store.FindByID(ctx, live.ID)
	assert.NoError(t, err)
	_, err = store.FindByID(ctx, dead.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
