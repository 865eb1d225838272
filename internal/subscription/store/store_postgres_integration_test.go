//go:build integration

package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	identitymodels "alphaseek/internal/identity/models"
	identitystore "alphaseek/internal/identity/store/user"
	"alphaseek/internal/subscription/models"
	id "alphaseek/pkg/domain"
	"alphaseek/pkg/platform/sentinel"
	"alphaseek/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite

	store *PostgresStore
	users *identitystore.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	pg := containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(pg.Pool)
	s.users = identitystore.NewPostgres(pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	containers.GetManager().Reset(context.Background(), s.T())
}

// seedUser satisfies the user_id foreign key for claimed rows.
func (s *PostgresStoreSuite) seedUser(email string) id.UserID {
	userID := id.UserID(uuid.New())
	now := time.Now().UTC()
	s.Require().NoError(s.users.Create(context.Background(), &identitymodels.User{
		ID:          userID,
		Email:       email,
		CreatedAt:   now,
		LastLoginAt: now,
	}))
	return userID
}

func (s *PostgresStoreSuite) newSub(owner id.OwnerKey, ticker string, shares float64) *models.Subscription {
	sub, err := models.New(id.SubscriptionID(uuid.New()), owner, ticker, shares, time.Now().UTC())
	s.Require().NoError(err)
	return sub
}

func (s *PostgresStoreSuite) TestInsertAndFind() {
	ctx := context.Background()
	sub := s.newSub(id.OwnerKey{Email: "a@x.com"}, "NVDA", 10)
	s.Require().NoError(s.store.Insert(ctx, sub))

	found, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal("NVDA", found.Ticker)
	s.Equal(10.0, found.Shares)
	s.True(found.Active)
	s.True(found.UserID.IsNil())

	_, err = s.store.FindByID(ctx, id.SubscriptionID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUniqueIndexScopedToActiveRows() {
	ctx := context.Background()
	owner := id.OwnerKey{Email: "a@x.com"}

	first := s.newSub(owner, "NVDA", 10)
	s.Require().NoError(s.store.Insert(ctx, first))

	s.ErrorIs(s.store.Insert(ctx, s.newSub(owner, "NVDA", 5)), sentinel.ErrConflict)
	s.Require().NoError(s.store.Insert(ctx, s.newSub(id.OwnerKey{Email: "b@x.com"}, "NVDA", 5)))

	s.Require().NoError(s.store.Deactivate(ctx, first.ID, time.Now().UTC()))
	s.Require().NoError(s.store.Insert(ctx, s.newSub(owner, "NVDA", 5)),
		"soft-deleted rows must not block re-creation")
}

func (s *PostgresStoreSuite) TestConcurrentInsertSingleWinner() {
	ctx := context.Background()
	owner := id.OwnerKey{Email: "a@x.com"}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.store.Insert(ctx, s.newSub(owner, "NVDA", 1)); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load(), "the index must let exactly one concurrent insert through")
}

func (s *PostgresStoreSuite) TestListActiveByOwnerClaimsLegacyRows() {
	ctx := context.Background()
	userID := s.seedUser("a@x.com")

	s.Require().NoError(s.store.Insert(ctx, s.newSub(id.OwnerKey{Email: "a@x.com"}, "NVDA", 10)))
	s.Require().NoError(s.store.Insert(ctx, s.newSub(id.OwnerKey{UserID: userID, Email: "a@x.com"}, "AAPL", 2)))
	s.Require().NoError(s.store.Insert(ctx, s.newSub(id.OwnerKey{Email: "b@x.com"}, "TSLA", 1)))

	rows, err := s.store.ListActiveByOwner(ctx, id.OwnerKey{UserID: userID, Email: "a@x.com"})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	tickers := []string{rows[0].Ticker, rows[1].Ticker}
	s.ElementsMatch([]string{"NVDA", "AAPL"}, tickers)
}

func (s *PostgresStoreSuite) TestDeactivateIdempotent() {
	ctx := context.Background()
	sub := s.newSub(id.OwnerKey{Email: "a@x.com"}, "NVDA", 10)
	s.Require().NoError(s.store.Insert(ctx, sub))

	now := time.Now().UTC()
	s.Require().NoError(s.store.Deactivate(ctx, sub.ID, now))
	s.Require().NoError(s.store.Deactivate(ctx, sub.ID, now.Add(time.Hour)))

	found, err := s.store.FindByID(ctx, sub.ID)
	s.Require().NoError(err)
	s.False(found.Active)
	s.Require().NotNil(found.DeactivatedAt)
	s.WithinDuration(now, *found.DeactivatedAt, time.Second)

	s.ErrorIs(s.store.Deactivate(ctx, id.SubscriptionID(uuid.New()), now), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestLinkTokenLookups() {
	ctx := context.Background()
	sub := s.newSub(id.OwnerKey{Email: "a@x.com"}, "NVDA", 10)
	s.Require().NoError(s.store.Insert(ctx, sub))

	email, err := s.store.OwnerEmailByRowID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal("a@x.com", email)

	active, err := s.store.HasActiveByEmail(ctx, "a@x.com")
	s.Require().NoError(err)
	s.True(active)

	s.Require().NoError(s.store.Deactivate(ctx, sub.ID, time.Now().UTC()))

	active, err = s.store.HasActiveByEmail(ctx, "a@x.com")
	s.Require().NoError(err)
	s.False(active)

	email, err = s.store.OwnerEmailByRowID(ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal("a@x.com", email, "manage links keep resolving after soft delete")
}
