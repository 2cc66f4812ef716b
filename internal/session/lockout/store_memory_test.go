package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemoryStore()
	s.store.now = func() time.Time { return s.now }
}

func (s *InMemoryStoreSuite) TestFailuresCountWithinWindow() {
	ctx := context.Background()
	for want := 1; want <= 3; want++ {
		got, err := s.store.RecordFailure(ctx, "k", time.Minute)
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	s.now = s.now.Add(time.Minute)
	got, err := s.store.RecordFailure(ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Equal(1, got, "count restarts once the window passes")
}

func (s *InMemoryStoreSuite) TestLockExpires() {
	ctx := context.Background()
	s.Require().NoError(s.store.Lock(ctx, "k", 10*time.Minute))

	remaining, err := s.store.LockedFor(ctx, "k")
	s.Require().NoError(err)
	s.Equal(10*time.Minute, remaining)

	s.now = s.now.Add(10 * time.Minute)
	remaining, err = s.store.LockedFor(ctx, "k")
	s.Require().NoError(err)
	s.Zero(remaining)
	s.Empty(s.store.entries, "expired entry is dropped")
}

func (s *InMemoryStoreSuite) TestClear() {
	ctx := context.Background()
	_, err := s.store.RecordFailure(ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Lock(ctx, "k", time.Minute))

	s.Require().NoError(s.store.Clear(ctx, "k"))

	remaining, err := s.store.LockedFor(ctx, "k")
	s.Require().NoError(err)
	s.Zero(remaining)
	got, err := s.store.RecordFailure(ctx, "k", time.Minute)
	s.Require().NoError(err)
	s.Equal(1, got)
}

func (s *InMemoryStoreSuite) TestUnknownKeyIsNotLocked() {
	remaining, err := s.store.LockedFor(context.Background(), "missing")
	s.Require().NoError(err)
	s.Zero(remaining)
}
