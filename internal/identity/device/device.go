// Package device derives the human-readable device label shown alongside a
// session (e.g. "Chrome on Linux").
package device

import (
	"github.com/mssola/useragent"
)

// DisplayName summarizes a User-Agent header. Empty or unparseable agents
// yield "Unknown device" rather than leaking the raw header into stored
// sessions.
func DisplayName(rawUserAgent string) string {
	if rawUserAgent == "" {
		return "Unknown device"
	}

	ua := useragent.New(rawUserAgent)
	browser, _ := ua.Browser()
	os := ua.OSInfo().Name

	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown device"
	}
}
