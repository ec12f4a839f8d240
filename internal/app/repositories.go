package app

import (
	"context"

	"quizarena/internal/domain"
)

// LobbyRepository is the shared lobby store keyed by lobby code (in-memory, Redis).
type LobbyRepository interface {
	// Create stores a new lobby, failing with domain.ErrLobbyCodeTaken on collision.
	Create(ctx context.Context, lobby domain.Lobby) error
	// Get returns domain.ErrLobbyNotFound for unknown codes.
	Get(ctx context.Context, code string) (domain.Lobby, error)
	// Update reads the lobby, applies fn and writes the result back. The update
	// is dropped when fn or validation fails.
	Update(ctx context.Context, code string, fn func(*domain.Lobby) error) (domain.Lobby, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]domain.Lobby, error)
}

// UserRepository is the durable user store keyed by username.
type UserRepository interface {
	// Create fails with domain.ErrUsernameTaken when the username exists.
	Create(ctx context.Context, user domain.User) error
	// Get returns domain.ErrUserNotFound for unknown usernames.
	Get(ctx context.Context, username string) (domain.User, error)
	// UpdateProfile renames a user and/or changes their avatar.
	UpdateProfile(ctx context.Context, username, newUsername, avatar string) (domain.User, error)
	// RecordCompletion adds score to the total and counts one completed quiz.
	// It is keyed by user ID so that a rename mid-round still lands.
	RecordCompletion(ctx context.Context, userID string, score int) error
	List(ctx context.Context) ([]domain.User, error)
}

// QuizRepository loads saved quizzes (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// RoundRepository holds live play-throughs (in-memory, Redis-marked).
type RoundRepository interface {
	Add(round *Round)
	Get(roundID string) (*Round, bool)
	Delete(roundID string)
	List() []*Round
}

// TriviaSource samples quizzes from a static question dataset.
type TriviaSource interface {
	Sample(category, difficulty string, count int) (domain.Quiz, error)
	Categories() []string
}
