package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"alphaseek/internal/subscription/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

const subscriptionColumns = `id, email, user_id, ticker, shares, active, created_at, updated_at, deactivated_at`

// PostgresStore persists subscriptions in PostgreSQL. Duplicate prevention is
// enforced by a partial unique index over active rows, so concurrent inserts
// for the same owner and ticker settle on exactly one winner.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, sub *models.Subscription) error {
	var userID any
	if !sub.UserID.IsNil() {
		userID = sub.UserID.String()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, email, user_id, ticker, shares, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sub.ID.String(), sub.Email, userID, sub.Ticker, sub.Shares, sub.Active, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("active subscription exists for ticker: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, rowID id.SubscriptionID) (*models.Subscription, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, rowID.String())
	return scanSubscription(row)
}

// ListActiveByOwner returns active rows the key owns. A key carrying a user id
// also picks up unclaimed legacy rows that match its email.
func (s *PostgresStore) ListActiveByOwner(ctx context.Context, owner id.OwnerKey) ([]*models.Subscription, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if !owner.UserID.IsNil() {
		rows, err = s.pool.Query(ctx, `
			SELECT `+subscriptionColumns+`
			FROM subscriptions
			WHERE active AND (user_id = $1 OR (user_id IS NULL AND email = $2))
			ORDER BY created_at, ticker
		`, owner.UserID.String(), owner.Email)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+subscriptionColumns+`
			FROM subscriptions
			WHERE active AND email = $1
			ORDER BY created_at, ticker
		`, owner.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, rowID id.SubscriptionID, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions
		SET active = FALSE, updated_at = $2, deactivated_at = $2
		WHERE id = $1 AND active
	`, rowID.String(), now)
	if err != nil {
		return fmt.Errorf("deactivate subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either already inactive (a no-op) or missing entirely.
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE id = $1)`, rowID.String(),
		).Scan(&exists); err != nil {
			return fmt.Errorf("deactivate subscription: %w", err)
		}
		if !exists {
			return fmt.Errorf("subscription not found: %w", sentinel.ErrNotFound)
		}
	}
	return nil
}

func (s *PostgresStore) OwnerEmailByRowID(ctx context.Context, rowID id.SubscriptionID) (string, error) {
	var email string
	err := s.pool.QueryRow(ctx,
		`SELECT email FROM subscriptions WHERE id = $1`, rowID.String()).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("subscription not found: %w", sentinel.ErrNotFound)
		}
		return "", fmt.Errorf("find subscription owner: %w", err)
	}
	return email, nil
}

func (s *PostgresStore) HasActiveByEmail(ctx context.Context, email string) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE active AND email = $1)`, email).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("check active subscriptions: %w", err)
	}
	return active, nil
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var (
		rawID     string
		rawUserID *string
		sub       models.Subscription
	)
	err := row.Scan(&rawID, &sub.Email, &rawUserID, &sub.Ticker, &sub.Shares,
		&sub.Active, &sub.CreatedAt, &sub.UpdatedAt, &sub.DeactivatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("subscription not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	subID, err := id.ParseSubscriptionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt subscription id %q: %w", rawID, err)
	}
	sub.ID = subID
	if rawUserID != nil {
		userID, err := id.ParseUserID(*rawUserID)
		if err != nil {
			return nil, fmt.Errorf("corrupt user id %q: %w", *rawUserID, err)
		}
		sub.UserID = userID
	}
	return &sub, nil
}
