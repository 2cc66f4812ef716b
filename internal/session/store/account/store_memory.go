package account

import (
	"context"
	"sync"

	"eventgate/internal/session/models"
	"eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

// InMemoryStore keeps accounts keyed by normalized email.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Account
	byID    map[domain.UserID]*models.Account
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEmail: make(map[string]*models.Account),
		byID:    make(map[domain.UserID]*models.Account),
	}
}

// Create returns sentinel.ErrAlreadyUsed when the email is taken.
func (s *InMemoryStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return sentinel.ErrAlreadyUsed
	}
	c := *account
	s.byEmail[c.Email] = &c
	s.byID[c.UserID] = &c
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID domain.UserID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *a
	return &c, nil
}
