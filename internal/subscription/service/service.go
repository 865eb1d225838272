// Package service implements the subscription ledger: the list of tickers an
// owner receives briefings for, with soft-delete lifecycle and duplicate
// prevention scoped to active rows.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	identity "alphaseek/internal/identity/models"
	"alphaseek/internal/platform/metrics"
	"alphaseek/internal/subscription/models"
	id "alphaseek/pkg/domain"
	dErrors "alphaseek/pkg/domain-errors"
	"alphaseek/pkg/platform/sentinel"
	"alphaseek/pkg/requestcontext"
)

// Store is the persistence the ledger needs.
type Store interface {
	Insert(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, rowID id.SubscriptionID) (*models.Subscription, error)
	ListActiveByOwner(ctx context.Context, owner id.OwnerKey) ([]*models.Subscription, error)
	Deactivate(ctx context.Context, rowID id.SubscriptionID, now time.Time) error
}

type Ledger struct {
	store   Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Ledger)

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func NewLedger(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListActive returns the caller's active subscriptions. Any resolved
// principal may read; an empty portfolio is an empty list, not an error.
func (l *Ledger) ListActive(ctx context.Context, principal identity.Principal) ([]*models.Subscription, error) {
	subs, err := l.store.ListActiveByOwner(ctx, principal.OwnerKey())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "subscription store unreachable")
	}
	return subs, nil
}

// Create adds an active subscription for the session owner. Only a session
// principal may call it; weaker identity schemes never reach this signature.
func (l *Ledger) Create(ctx context.Context, principal identity.SessionPrincipal, rawTicker string, shares float64) (*models.Subscription, error) {
	now := requestcontext.Now(ctx)
	owner := principal.OwnerKey()

	sub, err := models.New(id.SubscriptionID(uuid.New()), owner, rawTicker, shares, now)
	if err != nil {
		return nil, err
	}

	// The store's uniqueness guard dedupes on the exact stored owner column,
	// so check against everything the key owns, claimed legacy rows included.
	existing, err := l.store.ListActiveByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "subscription store unreachable")
	}
	for _, row := range existing {
		if row.Ticker == sub.Ticker {
			return nil, dErrors.New(dErrors.CodeDuplicateSubscription, "already subscribed to "+sub.Ticker)
		}
	}

	if err := l.store.Insert(ctx, sub); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeDuplicateSubscription, "already subscribed to "+sub.Ticker)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "subscription store unreachable")
	}

	l.metrics.IncrementSubscriptionsCreated()
	l.logger.InfoContext(ctx, "subscription created",
		"subscription_id", sub.ID.String(),
		"ticker", sub.Ticker,
		"user_id", principal.UserID.String(),
	)
	return sub, nil
}

// SoftDelete deactivates a subscription the session owner holds. Rows owned
// by anyone else read as not found. Deleting an already inactive row is a
// no-op so retried requests stay safe.
func (l *Ledger) SoftDelete(ctx context.Context, principal identity.SessionPrincipal, rowID id.SubscriptionID) error {
	sub, err := l.store.FindByID(ctx, rowID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "subscription not found")
		}
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "subscription store unreachable")
	}
	if !sub.OwnedBy(principal.OwnerKey()) {
		return dErrors.New(dErrors.CodeNotFound, "subscription not found")
	}
	if !sub.Active {
		return nil
	}

	if err := l.store.Deactivate(ctx, rowID, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "subscription not found")
		}
		return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "subscription store unreachable")
	}

	l.metrics.IncrementSubscriptionsDeactivated()
	l.logger.InfoContext(ctx, "subscription deactivated",
		"subscription_id", rowID.String(),
		"user_id", principal.UserID.String(),
	)
	return nil
}
