package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
)

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "NVDA", NormalizeTicker("  nvda "))
	assert.Equal(t, "BRK.B", NormalizeTicker("brk.b"))
}

func TestValidateTicker(t *testing.T) {
	valid := []string{"A", "NVDA", "BRK.B", "BF-B", "GOOG1"}
	for _, ticker := range valid {
		assert.NoError(t, ValidateTicker(ticker), ticker)
	}

	invalid := []string{"", "TOOLONGTICKER", "NV DA", "nvda", ".NVDA", "NVDA-", "NV$A"}
	for _, ticker := range invalid {
		err := ValidateTicker(ticker)
		require.Error(t, err, ticker)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTicker), ticker)
	}
}

func TestValidateShares(t *testing.T) {
	assert.NoError(t, ValidateShares(0.5))
	assert.NoError(t, ValidateShares(10))

	for _, shares := range []float64{0, -1, -0.01} {
		err := ValidateShares(shares)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidShares))
	}
}

func TestNew_NormalizesBeforeValidating(t *testing.T) {
	now := time.Now()
	owner := id.OwnerKey{UserID: id.UserID(uuid.New()), Email: "a@x.com"}

	sub, err := New(id.SubscriptionID(uuid.New()), owner, " nvda ", 10, now)
	require.NoError(t, err)
	assert.Equal(t, "NVDA", sub.Ticker)
	assert.True(t, sub.Active)
	assert.Equal(t, owner.UserID, sub.UserID)
	assert.Equal(t, "a@x.com", sub.Email)

	_, err = New(id.SubscriptionID(uuid.New()), owner, "   ", 10, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTicker))

	_, err = New(id.SubscriptionID(uuid.New()), owner, "NVDA", 0, now)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidShares))
}

func TestDeactivate_Idempotent(t *testing.T) {
	now := time.Now()
	owner := id.OwnerKey{Email: "a@x.com"}
	sub, err := New(id.SubscriptionID(uuid.New()), owner, "NVDA", 1, now)
	require.NoError(t, err)

	sub.Deactivate(now)
	require.False(t, sub.Active)
	require.NotNil(t, sub.DeactivatedAt)
	first := *sub.DeactivatedAt

	sub.Deactivate(now.Add(time.Hour))
	assert.Equal(t, first, *sub.DeactivatedAt, "second deactivation must not move the timestamp")
}

func TestOwnedBy(t *testing.T) {
	userID := id.UserID(uuid.New())
	now := time.Now()

	legacy, err := New(id.SubscriptionID(uuid.New()), id.OwnerKey{Email: "a@x.com"}, "NVDA", 1, now)
	require.NoError(t, err)
	owned, err := New(id.SubscriptionID(uuid.New()), id.OwnerKey{UserID: userID, Email: "a@x.com"}, "AAPL", 1, now)
	require.NoError(t, err)

	sessionKey := id.OwnerKey{UserID: userID, Email: "a@x.com"}
	assert.True(t, owned.OwnedBy(sessionKey))
	assert.True(t, legacy.OwnedBy(sessionKey), "session owners claim their legacy email-only rows")

	stranger := id.OwnerKey{UserID: id.UserID(uuid.New()), Email: "b@x.com"}
	assert.False(t, owned.OwnedBy(stranger))
	assert.False(t, legacy.OwnedBy(stranger))
}
