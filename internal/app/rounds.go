package app

import (
	"context"
	"fmt"
	"log"

	"quizarena/internal/domain"
	"quizarena/internal/quizsource"
)

// DefaultTriviaQuestions is used when a trivia request names no count.
const DefaultTriviaQuestions = 5

// StartSolo begins a single-player play-through of quiz.
func (s *GameService) StartSolo(_ context.Context, player Player, quiz domain.Quiz) (Snapshot, error) {
	if err := quiz.Validate(); err != nil {
		return Snapshot{}, err
	}
	round := newRound(s.newID(), quiz, player, "", s.lobbies, s.users, s.settings)
	s.rounds.Add(round)
	return round.Snapshot(), nil
}

// TriviaRequest selects questions from the trivia dataset.
type TriviaRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// QuizRequest names where a quiz comes from. Exactly one field is expected;
// they are tried in declaration order.
type QuizRequest struct {
	QuizID    string         `json:"quizId,omitempty"`
	Trivia    *TriviaRequest `json:"trivia,omitempty"`
	Quiz      *domain.Quiz   `json:"quiz,omitempty"`
	Generated string         `json:"generated,omitempty"`
}

// ResolveQuiz loads, samples or parses the quiz described by req.
func (s *GameService) ResolveQuiz(ctx context.Context, req QuizRequest) (domain.Quiz, error) {
	switch {
	case req.QuizID != "":
		return s.quizzes.GetQuiz(ctx, req.QuizID)
	case req.Trivia != nil:
		if s.trivia == nil {
			return domain.Quiz{}, errNoTrivia
		}
		count := req.Trivia.Count
		if count <= 0 {
			count = DefaultTriviaQuestions
		}
		return s.trivia.Sample(req.Trivia.Category, req.Trivia.Difficulty, count)
	case req.Quiz != nil:
		return *req.Quiz, req.Quiz.Validate()
	case req.Generated != "":
		return quizsource.ParseGenerated(req.Generated)
	default:
		return domain.Quiz{}, domain.ErrEmptyQuiz
	}
}

// StartSavedQuiz begins a solo round of a quiz from the library.
func (s *GameService) StartSavedQuiz(ctx context.Context, player Player, quizID string) (Snapshot, error) {
	return s.Start(ctx, player, QuizRequest{QuizID: quizID})
}

// StartTrivia samples the trivia dataset and begins a solo round.
func (s *GameService) StartTrivia(ctx context.Context, player Player, category, difficulty string, count int) (Snapshot, error) {
	return s.Start(ctx, player, QuizRequest{Trivia: &TriviaRequest{Category: category, Difficulty: difficulty, Count: count}})
}

// Start resolves req and begins a solo round of it.
func (s *GameService) Start(ctx context.Context, player Player, req QuizRequest) (Snapshot, error) {
	quiz, err := s.ResolveQuiz(ctx, req)
	if err != nil {
		return Snapshot{}, err
	}
	return s.StartSolo(ctx, player, quiz)
}

// TriviaCategories lists the dataset's categories.
func (s *GameService) TriviaCategories() []string {
	if s.trivia == nil {
		return nil
	}
	return s.trivia.Categories()
}

// StartLobbyRound attaches player to the game running in a lobby.
func (s *GameService) StartLobbyRound(ctx context.Context, code string, player Player) (Snapshot, error) {
	code = normalizeCode(code)
	lobby, err := s.lobbies.Get(ctx, code)
	if err != nil {
		return Snapshot{}, err
	}
	if !lobby.HasPlayer(player.ID) {
		return Snapshot{}, domain.ErrNotInLobby
	}
	if lobby.Status != domain.LobbyPlaying {
		return Snapshot{}, domain.ErrLobbyNotPlaying
	}
	if lobby.Quiz == nil {
		return Snapshot{}, domain.ErrLobbyHasNoQuiz
	}
	round := newRound(s.newID(), *lobby.Quiz, player, code, s.lobbies, s.users, s.settings)
	round.startedAt = lobby.StartedAt
	s.rounds.Add(round)
	// First poll adopts the shared question index and timer.
	return round.Poll(ctx)
}

// SubmitAnswer submits player's answer to the open question of a round.
func (s *GameService) SubmitAnswer(ctx context.Context, roundID, playerID, answer string) (Snapshot, error) {
	round, err := s.round(roundID, playerID)
	if err != nil {
		return Snapshot{}, err
	}
	return round.Submit(ctx, answer)
}

// PollRound advances timers of a round and returns its current view.
func (s *GameService) PollRound(ctx context.Context, roundID, playerID string) (Snapshot, error) {
	round, err := s.round(roundID, playerID)
	if err != nil {
		return Snapshot{}, err
	}
	return round.Poll(ctx)
}

// PlayAgain restarts a finished solo round from the first question.
func (s *GameService) PlayAgain(ctx context.Context, roundID, playerID string) (Snapshot, error) {
	round, err := s.round(roundID, playerID)
	if err != nil {
		return Snapshot{}, err
	}
	if err := round.Reset(); err != nil {
		return Snapshot{}, err
	}
	return round.Snapshot(), nil
}

// DiscardRound drops a round, e.g. when the player leaves the game screen.
func (s *GameService) DiscardRound(_ context.Context, roundID, playerID string) error {
	if _, err := s.round(roundID, playerID); err != nil {
		return err
	}
	s.rounds.Delete(roundID)
	return nil
}

// SweepRounds drops completed and abandoned rounds and reports how many went.
func (s *GameService) SweepRounds() int {
	now := s.now()
	swept := 0
	for _, round := range s.rounds.List() {
		if round.Stale(now) {
			s.rounds.Delete(round.ID())
			swept++
		}
	}
	if swept > 0 {
		log.Printf("swept %d idle rounds", swept)
	}
	return swept
}

func (s *GameService) round(roundID, playerID string) (*Round, error) {
	round, ok := s.rounds.Get(roundID)
	if !ok || round.PlayerID() != playerID {
		return nil, fmt.Errorf("%w: round %s", domain.ErrSessionNotFound, roundID)
	}
	return round, nil
}
