package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a@x.com", Normalize("  A@X.COM "))
	assert.Equal(t, "a@x.com", Normalize("a@x.com"))
}

func TestValidate(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.domain.io", "A@X.COM"}
	for _, addr := range valid {
		assert.NoError(t, Validate(addr), addr)
	}

	invalid := []string{"", "plain", "@x.com", "a@", "a@nodot", "a b@x.com"}
	for _, addr := range invalid {
		assert.Error(t, Validate(addr), addr)
	}
}

func TestDeriveNameFromEmail(t *testing.T) {
	first, last := DeriveNameFromEmail("jane.doe@x.com")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Doe", last)

	first, last = DeriveNameFromEmail("solo@x.com")
	assert.Equal(t, "Solo", first)
	assert.Equal(t, "User", last)
}
