package service

import (
	"context"
	"log/slog"
	"time"

	"alphaseek/internal/identity/models"
	"alphaseek/internal/identity/notify"
	"alphaseek/internal/identity/sender"
	"alphaseek/internal/identity/token"
	"alphaseek/internal/platform/metrics"
	id "alphaseek/pkg/domain"
)

// UserStore persists the stable accounts behind the session scheme.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	RecordLogin(ctx context.Context, userID id.UserID, at time.Time) error
}

// SessionStore persists authenticated sessions.
type SessionStore interface {
	Create(ctx context.Context, sess *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	RevokeIfActive(ctx context.Context, sessionID id.SessionID, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// LoginLinkStore persists issued passwordless sign-in links.
type LoginLinkStore interface {
	Create(ctx context.Context, link *models.LoginLink) error
	FindByID(ctx context.Context, linkID id.LoginLinkID) (*models.LoginLink, error)
	Consume(ctx context.Context, linkID id.LoginLinkID, now time.Time) (*models.LoginLink, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// PortfolioReader is the narrow view of the subscription store the resolver
// needs: point lookup for the legacy link scheme and an existence probe for
// raw-email bootstrap. Kept primitive so identity does not depend on the
// subscription models.
type PortfolioReader interface {
	OwnerEmailByRowID(ctx context.Context, rowID id.SubscriptionID) (string, error)
	HasActiveByEmail(ctx context.Context, email string) (bool, error)
}

// Resolver produces a trusted principal before any ledger operation proceeds.
// The three resolution strategies are deliberately distinct methods, weakest
// to strongest, so call sites can be audited for the trust level they rely
// on.
type Resolver struct {
	users    UserStore
	sessions SessionStore
	links    LoginLinkStore
	reader   PortfolioReader
	sender   sender.SignInLinkSender
	tokens   *token.Service

	notifier *notify.Broadcaster
	metrics  *metrics.Metrics
	logger   *slog.Logger

	baseURL      string
	sessionTTL   time.Duration
	loginLinkTTL time.Duration
}

type resolverConfig struct {
	notifier     *notify.Broadcaster
	metrics      *metrics.Metrics
	logger       *slog.Logger
	sessionTTL   time.Duration
	loginLinkTTL time.Duration
}

type Option func(*resolverConfig)

func WithNotifier(n *notify.Broadcaster) Option {
	return func(c *resolverConfig) { c.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *resolverConfig) { c.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *resolverConfig) { c.logger = l }
}

func WithSessionTTL(d time.Duration) Option {
	return func(c *resolverConfig) { c.sessionTTL = d }
}

func WithLoginLinkTTL(d time.Duration) Option {
	return func(c *resolverConfig) { c.loginLinkTTL = d }
}

func NewResolver(
	users UserStore,
	sessions SessionStore,
	links LoginLinkStore,
	reader PortfolioReader,
	linkSender sender.SignInLinkSender,
	tokens *token.Service,
	baseURL string,
	opts ...Option,
) *Resolver {
	cfg := &resolverConfig{
		sessionTTL:   24 * time.Hour,
		loginLinkTTL: 15 * time.Minute,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	notifier := cfg.notifier
	if notifier == nil {
		notifier = notify.NewBroadcaster()
	}
	return &Resolver{
		users:        users,
		sessions:     sessions,
		links:        links,
		reader:       reader,
		sender:       linkSender,
		tokens:       tokens,
		notifier:     notifier,
		metrics:      cfg.metrics,
		logger:       cfg.logger,
		baseURL:      baseURL,
		sessionTTL:   cfg.sessionTTL,
		loginLinkTTL: cfg.loginLinkTTL,
	}
}

// Notifier exposes the session change stream for subscribers.
func (r *Resolver) Notifier() *notify.Broadcaster {
	return r.notifier
}
