package memory

import (
	"context"
	"sync"

	"quizarena/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return domain.ErrUsernameTaken
	}
	s.users[user.Username] = user
	return nil
}

func (s *UserStore) Get(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) UpdateProfile(_ context.Context, username, newUsername, avatar string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RenameUser(s.users, username, newUsername, avatar)
}

func (s *UserStore) RecordCompletion(_ context.Context, userID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AddCompletion(s.users, userID, score)
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

// AddCompletion credits score and one completed quiz to the user with userID
// in a username-keyed map.
func AddCompletion(users map[string]domain.User, userID string, score int) error {
	for name, user := range users {
		if user.ID != userID {
			continue
		}
		user.Score += score
		user.QuizzesCompleted++
		users[name] = user
		return nil
	}
	return domain.ErrUserNotFound
}

// RenameUser applies a profile change to a username-keyed map. It is shared
// with the JSON file store, which keeps the same shape on disk.
func RenameUser(users map[string]domain.User, username, newUsername, avatar string) (domain.User, error) {
	user, ok := users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if newUsername != username {
		if _, taken := users[newUsername]; taken {
			return domain.User{}, domain.ErrUsernameTaken
		}
		delete(users, username)
	}
	user.Username = newUsername
	user.Avatar = avatar
	users[newUsername] = user
	return user, nil
}
