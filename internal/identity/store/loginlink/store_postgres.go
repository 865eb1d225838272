package loginlink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"alphaseek/internal/identity/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint errors.
const uniqueViolation = "23505"

// PostgresStore persists sign-in links in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, link *models.LoginLink) error {
	query := `
		INSERT INTO login_links (id, email, secret_hash, redirect_to, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		link.ID.String(), link.Email, link.SecretHash, link.RedirectTo, link.CreatedAt, link.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("login link id collision: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create login link: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, linkID id.LoginLinkID) (*models.LoginLink, error) {
	query := `
		SELECT id, email, secret_hash, redirect_to, created_at, expires_at, consumed_at
		FROM login_links WHERE id = $1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, linkID.String()))
}

// Consume burns the link atomically: the UPDATE only matches a row that is
// unconsumed and unexpired, so of two concurrent consumers exactly one
// succeeds. The loser gets a follow-up read to learn which invariant it lost
// to.
func (s *PostgresStore) Consume(ctx context.Context, linkID id.LoginLinkID, now time.Time) (*models.LoginLink, error) {
	query := `
		UPDATE login_links
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING id, email, secret_hash, redirect_to, created_at, expires_at, consumed_at
	`
	link, err := s.scanOne(s.db.QueryRowContext(ctx, query, linkID.String(), now))
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	// The guarded UPDATE matched nothing; inspect the row to report why.
	existing, findErr := s.FindByID(ctx, linkID)
	if findErr != nil {
		return nil, findErr
	}
	if existing.ConsumedAt != nil {
		return nil, fmt.Errorf("login link already used: %w", sentinel.ErrAlreadyUsed)
	}
	return nil, fmt.Errorf("login link expired: %w", sentinel.ErrExpired)
}

// DeleteExpired removes links past their deadline or already consumed.
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM login_links WHERE expires_at <= $1 OR consumed_at IS NOT NULL`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired login links: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired login links: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.LoginLink, error) {
	var (
		rawID      string
		link       models.LoginLink
		consumedAt sql.NullTime
	)
	err := row.Scan(&rawID, &link.Email, &link.SecretHash, &link.RedirectTo,
		&link.CreatedAt, &link.ExpiresAt, &consumedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("login link not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("scan login link: %w", err)
	}
	linkID, err := id.ParseLoginLinkID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt login link id %q: %w", rawID, err)
	}
	link.ID = linkID
	if consumedAt.Valid {
		link.ConsumedAt = &consumedAt.Time
	}
	return &link, nil
}
