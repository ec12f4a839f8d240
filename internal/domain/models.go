package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType is the closed set of question kinds a quiz may contain.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "mcq"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeFillInBlank    QuestionType = "identification"
	QuestionTypeEnumeration    QuestionType = "enumeration"
	QuestionTypeFreeResponse   QuestionType = "essay"
	QuestionTypeUnknown        QuestionType = ""
)

// ParseQuestionType maps a wire tag to a QuestionType. Unrecognised tags map to
// QuestionTypeUnknown so that evaluation fails closed.
func ParseQuestionType(raw string) QuestionType {
	switch QuestionType(strings.ToLower(strings.TrimSpace(raw))) {
	case QuestionTypeMultipleChoice:
		return QuestionTypeMultipleChoice
	case QuestionTypeTrueFalse:
		return QuestionTypeTrueFalse
	case QuestionTypeFillInBlank:
		return QuestionTypeFillInBlank
	case QuestionTypeEnumeration:
		return QuestionTypeEnumeration
	case QuestionTypeFreeResponse:
		return QuestionTypeFreeResponse
	default:
		return QuestionTypeUnknown
	}
}

// UnmarshalText lets JSON and YAML decoding go through ParseQuestionType.
func (t *QuestionType) UnmarshalText(text []byte) error {
	*t = ParseQuestionType(string(text))
	return nil
}

// IsChoice reports whether the question is answered by picking a fixed option.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeMultipleChoice || t == QuestionTypeTrueFalse
}

// Question is a single generated quiz question. Enumeration answers are comma-joined.
type Question struct {
	Text          string       `json:"question"`
	CorrectAnswer string       `json:"correct_answer"`
	Options       []string     `json:"options,omitempty"`
	Type          QuestionType `json:"question_type"`
}

// Quiz is an ordered, immutable list of questions.
type Quiz struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"quiz_title"`
	Questions []Question `json:"questions"`
}

// AnswerRecord is the outcome of one question in a play-through.
type AnswerRecord struct {
	QuestionIndex int    `json:"questionIndex"`
	Submitted     string `json:"submitted"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
	TimeTaken     int    `json:"timeTaken"` // whole seconds
	TimedOut      bool   `json:"timedOut"`
}

// ScoreState is the running score and consecutive-correct streak of a player.
type ScoreState struct {
	Score  int `json:"score"`
	Streak int `json:"streak"`
}

// Apply adds an awarded score and updates the streak.
func (s *ScoreState) Apply(correct bool, points int) {
	if points > 0 {
		s.Score += points
	}
	if correct {
		s.Streak++
	} else {
		s.Streak = 0
	}
}

type LobbyStatus string

const (
	LobbyWaiting LobbyStatus = "waiting"
	LobbyPlaying LobbyStatus = "playing"
)

type LobbyVisibility string

const (
	LobbyPrivate LobbyVisibility = "private"
	LobbyPublic  LobbyVisibility = "public"
)

// Lobby is the shared multiplayer record keyed by its code. Players and
// PlayerNames are index aligned.
type Lobby struct {
	Code              string          `json:"id"`
	Name              string          `json:"name"`
	Visibility        LobbyVisibility `json:"type"`
	MaxPlayers        int             `json:"max_players"`
	Players           []string        `json:"players"`
	PlayerNames       []string        `json:"player_names"`
	Host              string          `json:"host"`
	Status            LobbyStatus     `json:"status"`
	Quiz              *Quiz           `json:"quiz_data"`
	Scores            map[string]int  `json:"scores"`
	CurrentQuestion   int             `json:"current_question"`
	QuestionStartTime time.Time       `json:"question_start_time"`
	StartedAt         time.Time       `json:"start_time"`
}

// Validate checks the roster invariants.
func (l *Lobby) Validate() error {
	if len(l.Players) != len(l.PlayerNames) {
		return fmt.Errorf("%w: %d players but %d names", ErrInvalidLobby, len(l.Players), len(l.PlayerNames))
	}
	if l.MaxPlayers > 0 && len(l.Players) > l.MaxPlayers {
		return fmt.Errorf("%w: %d players exceeds max %d", ErrInvalidLobby, len(l.Players), l.MaxPlayers)
	}
	if len(l.Players) > 0 && !l.HasPlayer(l.Host) {
		return fmt.Errorf("%w: host %q is not a member", ErrInvalidLobby, l.Host)
	}
	return nil
}

// InProgress reports whether a game is running and has questions left.
func (l *Lobby) InProgress() bool {
	return l.Status == LobbyPlaying && l.Quiz != nil && l.CurrentQuestion < len(l.Quiz.Questions)
}

// HasPlayer reports whether playerID is in the roster.
func (l *Lobby) HasPlayer(playerID string) bool {
	return l.indexOf(playerID) >= 0
}

// PlayerName returns the display name aligned with playerID.
func (l *Lobby) PlayerName(playerID string) (string, bool) {
	i := l.indexOf(playerID)
	if i < 0 || i >= len(l.PlayerNames) {
		return "", false
	}
	return l.PlayerNames[i], true
}

// AddPlayer appends a player to the roster and opens their score entry.
func (l *Lobby) AddPlayer(playerID, displayName string) error {
	if l.HasPlayer(playerID) {
		return ErrAlreadyInLobby
	}
	if l.MaxPlayers > 0 && len(l.Players) >= l.MaxPlayers {
		return ErrLobbyFull
	}
	l.Players = append(l.Players, playerID)
	l.PlayerNames = append(l.PlayerNames, displayName)
	if l.Scores == nil {
		l.Scores = make(map[string]int)
	}
	if _, ok := l.Scores[playerID]; !ok {
		l.Scores[playerID] = 0
	}
	return nil
}

// RemovePlayer drops a player from the roster. The host passes to the next
// remaining player.
func (l *Lobby) RemovePlayer(playerID string) error {
	i := l.indexOf(playerID)
	if i < 0 {
		return ErrNotInLobby
	}
	l.Players = append(l.Players[:i:i], l.Players[i+1:]...)
	l.PlayerNames = append(l.PlayerNames[:i:i], l.PlayerNames[i+1:]...)
	delete(l.Scores, playerID)
	if l.Host == playerID {
		l.Host = ""
		if len(l.Players) > 0 {
			l.Host = l.Players[0]
		}
	}
	return nil
}

func (l *Lobby) indexOf(playerID string) int {
	for i, id := range l.Players {
		if id == playerID {
			return i
		}
	}
	return -1
}

// User is the durable player record.
type User struct {
	ID               string    `json:"user_id"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"password"`
	Avatar           string    `json:"avatar"`
	Score            int       `json:"score"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	CreatedAt        time.Time `json:"created_at"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	UserID           string `json:"userId"`
	DisplayName      string `json:"displayName"`
	Avatar           string `json:"avatar,omitempty"`
	Score            int    `json:"score"`
	QuizzesCompleted int    `json:"quizzesCompleted,omitempty"`
}

// Leaderboard captures an ordered scoreboard.
type Leaderboard struct {
	LobbyCode string             `json:"lobbyCode,omitempty"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Validate rejects quizzes that cannot be played.
func (q Quiz) Validate() error {
	if len(q.Questions) == 0 {
		return ErrEmptyQuiz
	}
	return nil
}
