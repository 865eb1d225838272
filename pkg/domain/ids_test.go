package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "alphaseek/pkg/domain-errors"
)

// Parsing enforces the trust-boundary invariant: IDs must be valid, non-empty,
// non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSubscriptionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseSubscriptionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseUserID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(valid), id)
	})
}

func TestOwnerKey_Matches(t *testing.T) {
	userID := UserID(uuid.New())
	otherID := UserID(uuid.New())

	t.Run("session key matches rows by user id", func(t *testing.T) {
		key := OwnerKey{UserID: userID, Email: "a@x.com"}
		assert.True(t, key.Matches(userID, "whatever@x.com"))
		assert.False(t, key.Matches(otherID, "a@x.com"))
	})

	t.Run("session key claims legacy rows by email", func(t *testing.T) {
		key := OwnerKey{UserID: userID, Email: "a@x.com"}
		assert.True(t, key.Matches(UserID{}, "a@x.com"))
		assert.False(t, key.Matches(UserID{}, "b@x.com"))
	})

	t.Run("email-only key matches by email alone", func(t *testing.T) {
		key := OwnerKey{Email: "a@x.com"}
		assert.True(t, key.Matches(UserID{}, "a@x.com"))
		assert.True(t, key.Matches(userID, "a@x.com"))
		assert.False(t, key.Matches(userID, "b@x.com"))
	})
}
