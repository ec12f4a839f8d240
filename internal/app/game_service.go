package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizarena/internal/domain"
)

// Deps are the stores the game service works against.
type Deps struct {
	Users   UserRepository
	Lobbies LobbyRepository
	Rounds  RoundRepository
	Quizzes QuizRepository
	Trivia  TriviaSource
}

// GameService contains the quiz use cases: accounts, lobbies and rounds.
type GameService struct {
	users    UserRepository
	lobbies  LobbyRepository
	rounds   RoundRepository
	quizzes  QuizRepository
	trivia   TriviaSource
	settings RoundSettings
	newID    func() string

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewGameService(deps Deps, settings RoundSettings) *GameService {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &GameService{
		users:    deps.Users,
		lobbies:  deps.Lobbies,
		rounds:   deps.Rounds,
		quizzes:  deps.Quizzes,
		trivia:   deps.Trivia,
		settings: settings,
		newID:    uuid.NewString,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Player resolves the current profile of a registered user.
func (s *GameService) Player(ctx context.Context, username string) (Player, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return Player{}, err
	}
	return Player{ID: user.ID, Username: user.Username, Avatar: user.Avatar}, nil
}

func (s *GameService) now() time.Time {
	return s.settings.Now()
}

func (s *GameService) lobbyCode() string {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return fmt.Sprintf("L%d", 10000+s.rnd.Intn(90000))
}

var errNoTrivia = fmt.Errorf("%w: no trivia dataset configured", domain.ErrQuizNotFound)
