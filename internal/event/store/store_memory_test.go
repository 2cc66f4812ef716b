package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eventgate/internal/event/models"
	"eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemorySuite) insertEvent(title string) domain.EventID {
	id, err := s.store.InsertEvent(s.ctx, &models.Record{
		Title:     title,
		Date:      "2025-06-01",
		Location:  "Hall A",
		CreatedBy: "org-1",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	return id
}

func (s *InMemorySuite) TestInsertEventAssignsIDAndSequence() {
	first := s.insertEvent("Go Meetup")
	second := s.insertEvent("Rust Meetup")

	s.NotEqual(first, second)
	_, err := domain.ParseEventID(first.String())
	s.NoError(err)

	records, err := s.store.ListAllEvents(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	seqs := map[domain.EventID]int64{}
	for _, r := range records {
		seqs[r.ID] = r.Seq
	}
	s.Less(seqs[first], seqs[second])
}

func (s *InMemorySuite) TestInsertMembership() {
	eventID := s.insertEvent("Go Meetup")

	s.Run("first join succeeds", func() {
		s.NoError(s.store.InsertMembership(s.ctx, &models.Membership{EventID: eventID, UserID: "u1"}))
	})

	s.Run("duplicate join reports already used", func() {
		err := s.store.InsertMembership(s.ctx, &models.Membership{EventID: eventID, UserID: "u1"})
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown event reports not found", func() {
		err := s.store.InsertMembership(s.ctx, &models.Membership{EventID: domain.NewEventID(), UserID: "u1"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	memberships, err := s.store.ListAllMemberships(s.ctx)
	s.Require().NoError(err)
	s.Len(memberships, 1)
}

func (s *InMemorySuite) TestDeleteMembershipIsIdempotent() {
	eventID := s.insertEvent("Go Meetup")
	s.Require().NoError(s.store.InsertMembership(s.ctx, &models.Membership{EventID: eventID, UserID: "u1"}))

	s.NoError(s.store.DeleteMembership(s.ctx, eventID, "u1"))
	s.NoError(s.store.DeleteMembership(s.ctx, eventID, "u1"))
	s.NoError(s.store.DeleteMembership(s.ctx, domain.NewEventID(), "u2"))

	memberships, err := s.store.ListAllMemberships(s.ctx)
	s.Require().NoError(err)
	s.Empty(memberships)
}

func (s *InMemorySuite) TestListReturnsCopies() {
	s.insertEvent("Go Meetup")
	records, err := s.store.ListAllEvents(s.ctx)
	s.Require().NoError(err)
	records[0].Title = "mutated"

	again, err := s.store.ListAllEvents(s.ctx)
	s.Require().NoError(err)
	s.Equal("Go Meetup", again[0].Title)
}

// TestConcurrentDuplicateJoin verifies that racing joins for the same pair
// result in exactly one success.
func (s *InMemorySuite) TestConcurrentDuplicateJoin() {
	eventID := s.insertEvent("Go Meetup")
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.InsertMembership(s.ctx, &models.Membership{EventID: eventID, UserID: "u1"})
			switch {
			case err == nil:
				successCount.Add(1)
			case err == sentinel.ErrAlreadyUsed:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
