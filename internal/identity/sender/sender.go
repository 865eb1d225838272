// Package sender defines the outbound sign-in link contract. Actual email
// delivery is operated outside this service; the production deployment plugs
// in its own implementation.
package sender

import (
	"context"
	"log/slog"

	"alphaseek/pkg/email"
)

//go:generate mockgen -source=sender.go -destination=mock/sender_mock.go -package=mock

// SignInLinkSender delivers a single-use sign-in link to an address. The send
// must be atomic on the provider side: either the message is accepted for
// delivery or an error comes back; there is no partial send.
type SignInLinkSender interface {
	SendSignInLink(ctx context.Context, to, linkURL string) error
}

// LogSender writes the link to the process log instead of sending mail.
// Default for development and tests.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendSignInLink(ctx context.Context, to, linkURL string) error {
	first, _ := email.DeriveNameFromEmail(to)
	s.logger.InfoContext(ctx, "sign-in link issued",
		"to", to,
		"greeting_name", first,
		"link", linkURL,
	)
	return nil
}
