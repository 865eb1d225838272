package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	const chromeLinux = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	assert.Equal(t, "Chrome on Linux", DisplayName(chromeLinux))
	assert.Equal(t, "Unknown device", DisplayName(""))
	assert.Equal(t, "Unknown device", DisplayName("definitely not a user agent"))
}
