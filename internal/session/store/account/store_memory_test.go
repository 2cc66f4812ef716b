package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventgate/internal/session/models"
	"eventgate/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	acct := &models.Account{UserID: "u1", Email: "alice@sso.com", PasswordHash: "hash", CreatedAt: time.Now()}
	s.Require().NoError(s.store.Create(ctx, acct))

	byEmail, err := s.store.FindByEmail(ctx, "alice@sso.com")
	s.Require().NoError(err)
	s.Equal(acct.UserID, byEmail.UserID)

	byID, err := s.store.FindByID(ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice@sso.com", byID.Email)
}

func (s *InMemoryStoreSuite) TestDuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, &models.Account{UserID: "u1", Email: "alice@sso.com"}))
	err := s.store.Create(ctx, &models.Account{UserID: "u2", Email: "alice@sso.com"})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByID(context.Background(), "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
