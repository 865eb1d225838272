// Package domainerrors provides code-classified errors for the service layer.
//
// Services return these so transports can map outcomes to user-visible
// responses without string matching. Stores do not use this package; they
// return sentinel errors (pkg/platform/sentinel) which services translate.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Codes are stable API: transports map them to
// HTTP statuses and clients may branch on them.
type Code string

const (
	CodeInternal           Code = "internal"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvariantViolation Code = "invariant_violation"

	// Subscription lifecycle codes.
	CodeInvalidTicker         Code = "invalid_ticker"
	CodeInvalidShares         Code = "invalid_shares"
	CodeDuplicateSubscription Code = "duplicate_subscription"

	// Identity resolution codes.
	CodeInvalidLink         Code = "invalid_link"
	CodeNoActivePortfolio   Code = "no_active_portfolio"
	CodeProviderUnavailable Code = "provider_unavailable"
)

// Error carries a classification code alongside the message. The wrapped cause
// (if any) is reachable via errors.Unwrap for logging; callers should branch
// on the code, not the cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
// A nil cause returns nil so call sites can wrap unconditionally.
func Wrap(cause error, code Code, message string) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err (or anything it wraps) is a domain error
// carrying the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability in tests.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
