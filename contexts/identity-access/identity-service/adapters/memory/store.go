package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
)

// Store is the in-memory user repository used by tests and local
// wiring. It enforces the same email uniqueness the durable adapter
// gets from its constraint.
type Store struct {
	mu      sync.RWMutex
	users   map[string]entities.User
	byEmail map[string]string

	NowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]entities.User),
		byEmail: make(map[string]string),
	}
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return domainerrors.ErrEmailTaken
	}
	s.users[user.UserID] = user
	s.byEmail[user.Email] = user.UserID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[email]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[userID], nil
}

func (s *Store) UpdateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.UserID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	if current.Email != user.Email {
		if owner, taken := s.byEmail[user.Email]; taken && owner != user.UserID {
			return domainerrors.ErrEmailTaken
		}
		delete(s.byEmail, current.Email)
		s.byEmail[user.Email] = user.UserID
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.users, userID)
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]entities.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].UserID > users[j].UserID
	})
	return users, nil
}

func (s *Store) Now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
