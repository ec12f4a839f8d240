package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"quizarena/internal/domain"
	"quizarena/internal/scoring"
)

// Phase is the state of a play-through.
type Phase string

const (
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseEvaluating     Phase = "evaluating"
	PhaseShowingResult  Phase = "showing_result"
	PhaseCompleted      Phase = "completed"
)

// TimesUpSubmission is submitted on behalf of a player whose timer ran out.
// It is empty so that every question type evaluates it as incorrect.
const TimesUpSubmission = ""

// Player identifies who is playing a round.
type Player struct {
	ID       string
	Username string
	Avatar   string
}

// RoundSettings tunes timing of a play-through. Retention is how long a
// completed round stays around for its final view and play again; IdleTimeout
// drops rounds nobody has touched in that long.
type RoundSettings struct {
	Limits        scoring.TimeLimits
	ResultDisplay time.Duration
	Retention     time.Duration
	IdleTimeout   time.Duration
	Now           func() time.Time
}

// DefaultRoundSettings mirrors the classic 6 second countdown and 3 second result screen.
func DefaultRoundSettings() RoundSettings {
	return RoundSettings{
		Limits:        scoring.DefaultTimeLimits(),
		ResultDisplay: 3 * time.Second,
		Retention:     5 * time.Minute,
		IdleTimeout:   30 * time.Minute,
		Now:           time.Now,
	}
}

// Round is one player's play-through of a quiz. When lobbyCode is set the
// question index and timer origin are owned by the lobby store and re-read on
// every call. startedAt pins the lobby game the round belongs to.
type Round struct {
	id        string
	quiz      domain.Quiz
	player    Player
	lobbyCode string
	startedAt time.Time
	lobbies   LobbyRepository
	users     UserRepository
	settings  RoundSettings

	mu            sync.Mutex
	phase         Phase
	index         int
	questionStart time.Time
	submitted     bool
	resultUntil   time.Time
	answers       []domain.AnswerRecord
	state         domain.ScoreState
	recorded      bool
	leaderboard   *domain.Leaderboard
	lastSeen      time.Time
}

func newRound(id string, quiz domain.Quiz, player Player, lobbyCode string, lobbies LobbyRepository, users UserRepository, settings RoundSettings) *Round {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	now := settings.Now()
	return &Round{
		id:            id,
		quiz:          quiz,
		player:        player,
		lobbyCode:     lobbyCode,
		lobbies:       lobbies,
		users:         users,
		settings:      settings,
		phase:         PhaseAwaitingAnswer,
		questionStart: now,
		lastSeen:      now,
	}
}

// NewSoloRound builds a detached solo round that records nothing durable.
func NewSoloRound(id string, quiz domain.Quiz, player Player, settings RoundSettings) *Round {
	return newRound(id, quiz, player, "", nil, nil, settings)
}

func (r *Round) ID() string { return r.id }

func (r *Round) PlayerID() string { return r.player.ID }

func (r *Round) LobbyCode() string { return r.lobbyCode }

// Submit records the player's answer to the open question. Only the first
// submission per question counts; anything else is ignored.
func (r *Round) Submit(ctx context.Context, answer string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.settings.Now()
	r.lastSeen = now
	if err := r.syncLocked(ctx); err != nil {
		return Snapshot{}, err
	}
	if r.phase != PhaseAwaitingAnswer || r.submitted {
		return r.snapshotLocked(now), nil
	}

	timedOut := !now.Before(r.deadlineLocked())
	if timedOut {
		answer = TimesUpSubmission
	}
	if err := r.evaluateLocked(ctx, answer, timedOut, now); err != nil {
		return Snapshot{}, err
	}
	return r.snapshotLocked(now), nil
}

// Poll drives timers: it expires unanswered questions, advances past the
// result screen and completes the round. Clients call it about once a second.
func (r *Round) Poll(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.settings.Now()
	r.lastSeen = now
	if err := r.syncLocked(ctx); err != nil {
		return Snapshot{}, err
	}

	if r.phase == PhaseAwaitingAnswer && !now.Before(r.deadlineLocked()) {
		if err := r.evaluateLocked(ctx, TimesUpSubmission, true, now); err != nil {
			return Snapshot{}, err
		}
	}
	if r.phase == PhaseShowingResult && !now.Before(r.resultUntil) {
		if err := r.advanceLocked(ctx, now); err != nil {
			return Snapshot{}, err
		}
	}
	if r.phase == PhaseCompleted {
		if err := r.completeLocked(ctx, now); err != nil {
			return Snapshot{}, err
		}
	}
	return r.snapshotLocked(now), nil
}

// Snapshot returns the current view without driving timers.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked(r.settings.Now())
}

// Reset starts the quiz over: answers, score and streak are cleared.
func (r *Round) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lobbyCode != "" {
		return domain.ErrRoundNotResettable
	}
	r.phase = PhaseAwaitingAnswer
	r.index = 0
	r.questionStart = r.settings.Now()
	r.lastSeen = r.questionStart
	r.submitted = false
	r.resultUntil = time.Time{}
	r.answers = nil
	r.state = domain.ScoreState{}
	r.recorded = false
	r.leaderboard = nil
	return nil
}

// Stale reports whether the round may be dropped at now: completed and
// unseen for Retention, or unseen for IdleTimeout in any phase.
func (r *Round) Stale(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idle := now.Sub(r.lastSeen)
	if r.phase == PhaseCompleted && r.settings.Retention > 0 && idle >= r.settings.Retention {
		return true
	}
	return r.settings.IdleTimeout > 0 && idle >= r.settings.IdleTimeout
}

// syncLocked adopts the lobby's authoritative question index and timer origin.
// Hosts only start a new game once the previous one ended, so a round that
// finds a newer game closes out instead.
func (r *Round) syncLocked(ctx context.Context) error {
	if r.lobbyCode == "" {
		return nil
	}
	lobby, err := r.lobbies.Get(ctx, r.lobbyCode)
	if err != nil {
		return r.lobbyErr(err)
	}
	if r.phase == PhaseCompleted {
		return nil
	}
	if lobby.Quiz == nil || len(lobby.Quiz.Questions) == 0 {
		return fmt.Errorf("%w: lobby %s has no quiz", domain.ErrSessionNotFound, r.lobbyCode)
	}
	if !r.sameGame(lobby) {
		r.closeOutLocked()
		return nil
	}
	if lobby.CurrentQuestion < r.index {
		return r.restartedErr()
	}
	r.adoptLocked(lobby)
	return nil
}

// closeOutLocked completes a round whose game the lobby has finished. Questions
// it never answered count as timed out.
func (r *Round) closeOutLocked() {
	for i := r.index; i < len(r.quiz.Questions); i++ {
		if i == r.index && r.submitted {
			continue
		}
		r.recordMissedLocked(i)
	}
	r.index = len(r.quiz.Questions)
	r.submitted = false
	r.resultUntil = time.Time{}
	r.phase = PhaseCompleted
}

func (r *Round) sameGame(lobby domain.Lobby) bool {
	return lobby.StartedAt.Equal(r.startedAt)
}

func (r *Round) restartedErr() error {
	return fmt.Errorf("%w: lobby %s moved back to an earlier question", domain.ErrSessionNotFound, r.lobbyCode)
}

func (r *Round) adoptLocked(lobby domain.Lobby) {
	if r.phase == PhaseCompleted {
		return
	}
	switch {
	case lobby.CurrentQuestion > r.index:
		for i := r.index; i < lobby.CurrentQuestion && i < len(r.quiz.Questions); i++ {
			if i == r.index && r.submitted {
				continue
			}
			r.recordMissedLocked(i)
		}
		r.index = lobby.CurrentQuestion
		r.questionStart = lobby.QuestionStartTime
		r.submitted = false
		r.resultUntil = time.Time{}
		if r.index >= len(r.quiz.Questions) {
			r.phase = PhaseCompleted
		} else {
			r.phase = PhaseAwaitingAnswer
		}
	case lobby.CurrentQuestion == r.index:
		r.questionStart = lobby.QuestionStartTime
	}
}

// recordMissedLocked books a question the lobby moved past as timed out.
func (r *Round) recordMissedLocked(index int) {
	r.answers = append(r.answers, domain.AnswerRecord{
		QuestionIndex: index,
		Submitted:     TimesUpSubmission,
		CorrectAnswer: r.quiz.Questions[index].CorrectAnswer,
		TimedOut:      true,
	})
	r.state.Apply(false, 0)
}

func (r *Round) deadlineLocked() time.Time {
	return r.questionStart.Add(r.settings.Limits.Limit(r.quiz.Questions[r.index]))
}

func (r *Round) evaluateLocked(ctx context.Context, answer string, timedOut bool, now time.Time) error {
	r.phase = PhaseEvaluating
	question := r.quiz.Questions[r.index]

	elapsed := now.Sub(r.questionStart)
	if elapsed < 0 {
		elapsed = 0
	}
	seconds := int(elapsed / time.Second)

	correct := scoring.Evaluate(question, answer)
	points := scoring.Score(float64(seconds), correct, question.Type, scoring.FullAccuracy)

	if r.lobbyCode != "" && points > 0 {
		playerID := r.player.ID
		_, err := r.lobbies.Update(ctx, r.lobbyCode, func(l *domain.Lobby) error {
			if !l.HasPlayer(playerID) {
				return domain.ErrNotInLobby
			}
			if l.Scores == nil {
				l.Scores = make(map[string]int)
			}
			l.Scores[playerID] += points
			return nil
		})
		if err != nil {
			r.phase = PhaseAwaitingAnswer
			return r.lobbyErr(err)
		}
	}

	r.answers = append(r.answers, domain.AnswerRecord{
		QuestionIndex: r.index,
		Submitted:     answer,
		CorrectAnswer: question.CorrectAnswer,
		Correct:       correct,
		Score:         points,
		TimeTaken:     seconds,
		TimedOut:      timedOut,
	})
	r.state.Apply(correct, points)
	r.submitted = true

	// A timeout is anchored at the deadline however late it was noticed, so
	// every lobby member advances at the same instant.
	shownFrom := r.deadlineLocked()
	if !timedOut && now.After(shownFrom) {
		shownFrom = now
	}
	r.resultUntil = shownFrom.Add(r.settings.ResultDisplay)
	r.phase = PhaseShowingResult
	return nil
}

func (r *Round) advanceLocked(ctx context.Context, now time.Time) error {
	if r.lobbyCode != "" {
		from, startedAt := r.index, r.startedAt
		lobby, err := r.lobbies.Update(ctx, r.lobbyCode, func(l *domain.Lobby) error {
			if l.StartedAt.Equal(startedAt) && l.CurrentQuestion == from {
				l.CurrentQuestion = from + 1
				l.QuestionStartTime = now
			}
			return nil
		})
		if err != nil {
			return r.lobbyErr(err)
		}
		if !r.sameGame(lobby) {
			r.closeOutLocked()
			return nil
		}
		if lobby.CurrentQuestion <= from {
			return r.restartedErr()
		}
		r.adoptLocked(lobby)
		return nil
	}

	r.index++
	r.questionStart = now
	r.submitted = false
	r.resultUntil = time.Time{}
	if r.index >= len(r.quiz.Questions) {
		r.phase = PhaseCompleted
		return nil
	}
	r.phase = PhaseAwaitingAnswer
	return nil
}

// completeLocked persists the result once and refreshes the match leaderboard.
func (r *Round) completeLocked(ctx context.Context, now time.Time) error {
	if !r.recorded && r.users != nil && r.player.ID != "" {
		if err := r.users.RecordCompletion(ctx, r.player.ID, r.state.Score); err != nil {
			return fmt.Errorf("record completion: %w", err)
		}
	}
	r.recorded = true

	if r.lobbyCode == "" {
		lb := rankLeaderboard("", []domain.LeaderboardEntry{r.ownEntry()}, now)
		r.leaderboard = &lb
		return nil
	}
	lobby, err := r.lobbies.Get(ctx, r.lobbyCode)
	if err != nil {
		return r.lobbyErr(err)
	}
	if !r.sameGame(lobby) {
		// The final standings of this game stay as they were last seen.
		if r.leaderboard == nil {
			lb := rankLeaderboard(r.lobbyCode, []domain.LeaderboardEntry{r.ownEntry()}, now)
			r.leaderboard = &lb
		}
		return nil
	}
	lb := lobbyLeaderboard(lobby, now)
	r.leaderboard = &lb
	return nil
}

func (r *Round) ownEntry() domain.LeaderboardEntry {
	return domain.LeaderboardEntry{
		UserID:      r.player.ID,
		DisplayName: r.player.Username,
		Avatar:      r.player.Avatar,
		Score:       r.state.Score,
	}
}

func (r *Round) lobbyErr(err error) error {
	if errors.Is(err, domain.ErrLobbyNotFound) {
		return fmt.Errorf("%w: lobby %s", domain.ErrSessionNotFound, r.lobbyCode)
	}
	return err
}

// QuestionView is a question as shown to the player; the answer is withheld.
type QuestionView struct {
	Text    string              `json:"text"`
	Options []string            `json:"options,omitempty"`
	Type    domain.QuestionType `json:"type"`
}

// Snapshot is a read-only view of a round for rendering.
type Snapshot struct {
	RoundID       string                `json:"roundId"`
	LobbyCode     string                `json:"lobbyCode,omitempty"`
	QuizTitle     string                `json:"quizTitle"`
	Phase         Phase                 `json:"phase"`
	QuestionIndex int                   `json:"questionIndex"`
	QuestionCount int                   `json:"questionCount"`
	Question      *QuestionView         `json:"question,omitempty"`
	TimeLimit     int                   `json:"timeLimit"`
	TimeRemaining int                   `json:"timeRemaining"`
	Score         int                   `json:"score"`
	Streak        int                   `json:"streak"`
	Result        *domain.AnswerRecord  `json:"result,omitempty"`
	Answers       []domain.AnswerRecord `json:"answers,omitempty"`
	Leaderboard   *domain.Leaderboard   `json:"leaderboard,omitempty"`
}

func (r *Round) snapshotLocked(now time.Time) Snapshot {
	snap := Snapshot{
		RoundID:       r.id,
		LobbyCode:     r.lobbyCode,
		QuizTitle:     r.quiz.Title,
		Phase:         r.phase,
		QuestionIndex: r.index,
		QuestionCount: len(r.quiz.Questions),
		Score:         r.state.Score,
		Streak:        r.state.Streak,
	}

	if r.phase == PhaseCompleted {
		snap.QuestionIndex = len(r.quiz.Questions)
		snap.Answers = append([]domain.AnswerRecord(nil), r.answers...)
		snap.Leaderboard = r.leaderboard
		return snap
	}

	q := r.quiz.Questions[r.index]
	options := q.Options
	if q.Type == domain.QuestionTypeTrueFalse && len(options) == 0 {
		options = []string{"True", "False"}
	}
	snap.Question = &QuestionView{Text: q.Text, Options: options, Type: q.Type}

	limit := r.settings.Limits.Limit(q)
	snap.TimeLimit = int(limit / time.Second)
	if remaining := r.deadlineLocked().Sub(now); remaining > 0 && !r.submitted {
		snap.TimeRemaining = int(remaining / time.Second)
	}

	if r.phase == PhaseShowingResult && len(r.answers) > 0 {
		last := r.answers[len(r.answers)-1]
		snap.Result = &last
	}
	return snap
}
