// Package email holds the email primitives shared by the identity and
// subscription features.
package email

import (
	"strings"
	"unicode"

	dErrors "alphaseek/pkg/domain-errors"
)

// Normalize lowercases and trims an address so the same mailbox always maps to
// the same owner key regardless of how the user typed it.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Validate applies the minimal structural check used at trust boundaries.
// Deliverability is the sign-in link sender's problem, not ours.
func Validate(addr string) error {
	addr = Normalize(addr)
	at := strings.IndexByte(addr, '@')
	if at <= 0 || at == len(addr)-1 {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	if strings.ContainsAny(addr, " \t\r\n") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	if !strings.Contains(addr[at+1:], ".") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email address")
	}
	return nil
}

// DeriveNameFromEmail extracts a display name pair from the local part of an
// address, used to personalize outgoing sign-in link messages.
func DeriveNameFromEmail(addr string) (string, string) {
	localPart := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		localPart = addr[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User", "User"
	}

	first := capitalize(parts[0])
	last := "User"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
