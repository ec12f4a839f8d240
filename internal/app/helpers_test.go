package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quizarena/internal/app"
	"quizarena/internal/domain"
	"quizarena/internal/infra/memory"
	"quizarena/internal/quizsource"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errStoreDown = errors.New("store down")

// flakyLobbies fails updates while failUpdates is set.
type flakyLobbies struct {
	*memory.LobbyStore
	failUpdates atomic.Bool
}

func (f *flakyLobbies) Update(ctx context.Context, code string, fn func(*domain.Lobby) error) (domain.Lobby, error) {
	if f.failUpdates.Load() {
		return domain.Lobby{}, errStoreDown
	}
	return f.LobbyStore.Update(ctx, code, fn)
}

type testEnv struct {
	svc     *app.GameService
	clock   *fakeClock
	users   *memory.UserStore
	lobbies *flakyLobbies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	clock := newClock()
	settings := app.DefaultRoundSettings()
	settings.Now = clock.Now
	env := &testEnv{
		clock:   clock,
		users:   memory.NewUserStore(),
		lobbies: &flakyLobbies{LobbyStore: memory.NewLobbyStore()},
	}
	env.svc = app.NewGameService(app.Deps{
		Users:   env.users,
		Lobbies: env.lobbies,
		Rounds:  memory.NewRoundStore(),
		Quizzes: memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": mcqQuiz(2)}), time.Minute),
		Trivia:  quizsource.NewTriviaSampler(nil),
	}, settings)
	return env
}

func (e *testEnv) player(t *testing.T, username string) app.Player {
	t.Helper()
	ctx := context.Background()
	if _, err := e.svc.Register(ctx, username, "secret", ""); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	p, err := e.svc.Player(ctx, username)
	if err != nil {
		t.Fatalf("player %s: %v", username, err)
	}
	return p
}

// mcqQuiz has n questions whose answer is always "4".
func mcqQuiz(n int) domain.Quiz {
	quiz := domain.Quiz{ID: "quiz-1", Title: "Arithmetic"}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			Text:          "What is 2 + 2?",
			CorrectAnswer: "4",
			Options:       []string{"3", "4", "5"},
			Type:          domain.QuestionTypeMultipleChoice,
		})
	}
	return quiz
}
