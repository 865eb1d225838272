package models

import (
	"strings"
	"time"

	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
)

// Subscription is one briefing row: an owner watching a ticker with a share
// count. Rows created before account sign-in existed carry only an email;
// UserID stays nil until a session owner claims them.
type Subscription struct {
	ID            id.SubscriptionID
	Email         string
	UserID        id.UserID
	Ticker        string
	Shares        float64
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeactivatedAt *time.Time
}

const maxTickerLen = 12

// NormalizeTicker canonicalizes a ticker symbol for storage and comparison.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateTicker checks the canonical form of a ticker symbol. Symbols are
// uppercase letters with optional dot or dash separators (BRK.B, BF-B).
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return dErrors.New(dErrors.CodeInvalidTicker, "ticker must not be empty")
	}
	if len(ticker) > maxTickerLen {
		return dErrors.New(dErrors.CodeInvalidTicker, "ticker too long")
	}
	for i := 0; i < len(ticker); i++ {
		c := ticker[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
			if i == 0 || i == len(ticker)-1 {
				return dErrors.New(dErrors.CodeInvalidTicker, "ticker has a dangling separator")
			}
		default:
			return dErrors.New(dErrors.CodeInvalidTicker, "ticker has invalid characters")
		}
	}
	return nil
}

// ValidateShares rejects non-positive share counts. Fractional shares are
// allowed; brokers sell them and the briefing math handles them.
func ValidateShares(shares float64) error {
	if shares <= 0 {
		return dErrors.New(dErrors.CodeInvalidShares, "shares must be positive")
	}
	return nil
}

// New builds a validated, active subscription owned by the given principal.
func New(subID id.SubscriptionID, owner id.OwnerKey, rawTicker string, shares float64, now time.Time) (*Subscription, error) {
	ticker := NormalizeTicker(rawTicker)
	if err := ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if err := ValidateShares(shares); err != nil {
		return nil, err
	}
	return &Subscription{
		ID:        subID,
		Email:     owner.Email,
		UserID:    owner.UserID,
		Ticker:    ticker,
		Shares:    shares,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy reports whether the key may read or mutate this row.
func (s *Subscription) OwnedBy(key id.OwnerKey) bool {
	return key.Matches(s.UserID, s.Email)
}

// Deactivate soft-deletes the row. Calling it on an inactive row is a no-op
// so repeated deletes stay safe.
func (s *Subscription) Deactivate(now time.Time) {
	if !s.Active {
		return
	}
	s.Active = false
	s.UpdatedAt = now
	s.DeactivatedAt = &now
}
