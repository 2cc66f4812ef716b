package store

import (
	"context"
	"sync"
	"time"

	"eventgate/internal/event/models"
	"eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

// InMemory keeps events and memberships in process. It enforces the same
// uniqueness rules as the Postgres store.
type InMemory struct {
	mu      sync.RWMutex
	seq     int64
	events  map[domain.EventID]*models.Record
	members map[domain.EventID]map[domain.UserID]time.Time
	newID   func() domain.EventID
}

func NewInMemory() *InMemory {
	return &InMemory{
		events:  make(map[domain.EventID]*models.Record),
		members: make(map[domain.EventID]map[domain.UserID]time.Time),
		newID:   domain.NewEventID,
	}
}

func (s *InMemory) ListAllEvents(_ context.Context) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, 0, len(s.events))
	for _, rec := range s.events {
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}

func (s *InMemory) ListAllMemberships(_ context.Context) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Membership
	for eventID, users := range s.members {
		for userID, joinedAt := range users {
			out = append(out, &models.Membership{EventID: eventID, UserID: userID, JoinedAt: joinedAt})
		}
	}
	return out, nil
}

// InsertEvent assigns a fresh id and insertion sequence to rec.
func (s *InMemory) InsertEvent(_ context.Context, rec *models.Record) (domain.EventID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rec
	c.ID = s.newID()
	s.seq++
	c.Seq = s.seq
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.events[c.ID] = &c
	return c.ID, nil
}

// InsertMembership returns sentinel.ErrNotFound for an unknown event and
// sentinel.ErrAlreadyUsed when the pair already exists.
func (s *InMemory) InsertMembership(_ context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[m.EventID]; !ok {
		return sentinel.ErrNotFound
	}
	users, ok := s.members[m.EventID]
	if !ok {
		users = make(map[domain.UserID]time.Time)
		s.members[m.EventID] = users
	}
	if _, dup := users[m.UserID]; dup {
		return sentinel.ErrAlreadyUsed
	}
	joinedAt := m.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now()
	}
	users[m.UserID] = joinedAt
	return nil
}

// DeleteMembership removes the pair if present.
func (s *InMemory) DeleteMembership(_ context.Context, eventID domain.EventID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if users, ok := s.members[eventID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(s.members, eventID)
		}
	}
	return nil
}
