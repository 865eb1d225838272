package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "alphaseek/pkg/domain"
)

func TestSession_Lifecycle(t *testing.T) {
	now := time.Now()
	sess := NewSession(id.SessionID(uuid.New()), id.UserID(uuid.New()), "a@x.com", "Chrome on Linux", now, time.Hour)

	assert.True(t, sess.IsActive(now))
	assert.True(t, sess.IsActive(now.Add(59*time.Minute)))
	assert.False(t, sess.IsActive(now.Add(2*time.Hour)), "expired session must not grant access")

	require.NoError(t, sess.CanRevoke())
	sess.ApplyRevocation(now)
	assert.False(t, sess.IsActive(now))
	assert.Error(t, sess.CanRevoke(), "revoking twice violates the one-way transition")
}

func TestLoginLink_SingleUseAndTTL(t *testing.T) {
	now := time.Now()
	link := &LoginLink{
		ID:        id.LoginLinkID(uuid.New()),
		Email:     "a@x.com",
		CreatedAt: now,
		ExpiresAt: now.Add(15 * time.Minute),
	}

	require.NoError(t, link.ValidateForConsume(now))
	assert.Error(t, link.ValidateForConsume(now.Add(16*time.Minute)))

	link.MarkConsumed(now)
	assert.Error(t, link.ValidateForConsume(now), "consumed link must not validate again")
}

func TestLoginToken_RoundTrip(t *testing.T) {
	linkID := id.LoginLinkID(uuid.New())
	token := FormatLoginToken(linkID, "s3cret")

	gotID, gotSecret, err := SplitLoginToken(token)
	require.NoError(t, err)
	assert.Equal(t, linkID, gotID)
	assert.Equal(t, "s3cret", gotSecret)
}

func TestSplitLoginToken_Malformed(t *testing.T) {
	for _, token := range []string{"", "no-dot", "not-a-uuid.secret", uuid.NewString()} {
		_, _, err := SplitLoginToken(token)
		assert.Error(t, err, token)
	}
}

func TestPrincipal_OwnerKeys(t *testing.T) {
	userID := id.UserID(uuid.New())

	session := SessionPrincipal{UserID: userID, Email: "a@x.com"}
	assert.Equal(t, SchemeSession, session.Scheme())
	assert.Equal(t, userID, session.OwnerKey().UserID)

	link := LinkPrincipal{Email: "a@x.com"}
	assert.Equal(t, SchemeLinkToken, link.Scheme())
	assert.True(t, link.OwnerKey().UserID.IsNil(), "link principals never carry a user id")

	raw := EmailPrincipal{Email: "a@x.com"}
	assert.Equal(t, SchemeEmail, raw.Scheme())
	assert.Equal(t, "a@x.com", raw.OwnerKey().Email)
}
