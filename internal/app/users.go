package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"quizarena/internal/domain"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 4

// Avatars is the fixed set of selectable avatars; the first is the default.
var Avatars = []string{"🧠", "🚀", "💡", "📚", "🎓", "🌟", "🤓", "😎", "🧐", "🤔"}

// Register creates a new account.
func (s *GameService) Register(ctx context.Context, username, password, avatar string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, domain.ErrUsernameRequired
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, domain.ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           "user_" + s.newID(),
		Username:     username,
		PasswordHash: string(hash),
		Avatar:       normalizeAvatar(avatar),
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login checks credentials and returns the stored user.
func (s *GameService) Login(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.Get(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Profile returns a user's record.
func (s *GameService) Profile(ctx context.Context, username string) (domain.User, error) {
	return s.users.Get(ctx, username)
}

// UpdateProfile changes a user's nickname and/or avatar. Empty values keep the current one.
func (s *GameService) UpdateProfile(ctx context.Context, username, newUsername, avatar string) (domain.User, error) {
	current, err := s.users.Get(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		newUsername = current.Username
	}
	if avatar == "" {
		avatar = current.Avatar
	}
	return s.users.UpdateProfile(ctx, username, newUsername, normalizeAvatar(avatar))
}

// GlobalLeaderboard ranks every registered user by total score.
func (s *GameService) GlobalLeaderboard(ctx context.Context) (domain.Leaderboard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return globalLeaderboard(users, s.now()), nil
}

func normalizeAvatar(avatar string) string {
	for _, a := range Avatars {
		if a == avatar {
			return a
		}
	}
	return Avatars[0]
}
