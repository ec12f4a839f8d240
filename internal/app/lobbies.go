package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"quizarena/internal/domain"
)

const (
	MinLobbyPlayers     = 2
	MaxLobbyPlayers     = 20
	DefaultLobbyPlayers = 10

	lobbyCodeAttempts = 10
)

// CreateLobby opens a lobby hosted by player.
func (s *GameService) CreateLobby(ctx context.Context, host Player, name string, visibility domain.LobbyVisibility, maxPlayers int) (domain.Lobby, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = host.Username + "'s Study Group"
	}
	if visibility != domain.LobbyPublic {
		visibility = domain.LobbyPrivate
	}
	switch {
	case maxPlayers == 0:
		maxPlayers = DefaultLobbyPlayers
	case maxPlayers < MinLobbyPlayers:
		maxPlayers = MinLobbyPlayers
	case maxPlayers > MaxLobbyPlayers:
		maxPlayers = MaxLobbyPlayers
	}

	for attempt := 0; attempt < lobbyCodeAttempts; attempt++ {
		lobby := domain.Lobby{
			Code:        s.lobbyCode(),
			Name:        name,
			Visibility:  visibility,
			MaxPlayers:  maxPlayers,
			Players:     []string{host.ID},
			PlayerNames: []string{host.Username},
			Host:        host.ID,
			Status:      domain.LobbyWaiting,
			Scores:      map[string]int{host.ID: 0},
		}
		err := s.lobbies.Create(ctx, lobby)
		if errors.Is(err, domain.ErrLobbyCodeTaken) {
			continue
		}
		if err != nil {
			return domain.Lobby{}, err
		}
		log.Printf("lobby %s created by %s", lobby.Code, host.Username)
		return lobby, nil
	}
	return domain.Lobby{}, fmt.Errorf("create lobby: %w", domain.ErrLobbyCodeTaken)
}

// GetLobby returns the lobby with the given code.
func (s *GameService) GetLobby(ctx context.Context, code string) (domain.Lobby, error) {
	return s.lobbies.Get(ctx, normalizeCode(code))
}

// ListPublicLobbies returns every lobby anyone may join.
func (s *GameService) ListPublicLobbies(ctx context.Context) ([]domain.Lobby, error) {
	all, err := s.lobbies.List(ctx)
	if err != nil {
		return nil, err
	}
	public := make([]domain.Lobby, 0, len(all))
	for _, l := range all {
		if l.Visibility == domain.LobbyPublic {
			public = append(public, l)
		}
	}
	return public, nil
}

// JoinLobby adds player to the lobby roster.
func (s *GameService) JoinLobby(ctx context.Context, code string, player Player) (domain.Lobby, error) {
	return s.lobbies.Update(ctx, normalizeCode(code), func(l *domain.Lobby) error {
		return l.AddPlayer(player.ID, player.Username)
	})
}

// LeaveLobby removes player from the roster, deleting the lobby once empty.
func (s *GameService) LeaveLobby(ctx context.Context, code, playerID string) error {
	code = normalizeCode(code)
	lobby, err := s.lobbies.Update(ctx, code, func(l *domain.Lobby) error {
		return l.RemovePlayer(playerID)
	})
	if err != nil {
		return err
	}
	if len(lobby.Players) == 0 {
		log.Printf("lobby %s is empty, removing", code)
		return s.lobbies.Delete(ctx, code)
	}
	return nil
}

// AttachQuiz sets the quiz the lobby will play. Only the host may do this.
func (s *GameService) AttachQuiz(ctx context.Context, code, playerID string, quiz domain.Quiz) (domain.Lobby, error) {
	if err := quiz.Validate(); err != nil {
		return domain.Lobby{}, err
	}
	return s.lobbies.Update(ctx, normalizeCode(code), func(l *domain.Lobby) error {
		if l.Host != playerID {
			return domain.ErrNotHost
		}
		if l.InProgress() {
			return domain.ErrLobbyAlreadyPlaying
		}
		l.Quiz = &quiz
		return nil
	})
}

// AttachQuizRequest resolves req and attaches the result to the lobby.
func (s *GameService) AttachQuizRequest(ctx context.Context, code, playerID string, req QuizRequest) (domain.Lobby, error) {
	quiz, err := s.ResolveQuiz(ctx, req)
	if err != nil {
		return domain.Lobby{}, err
	}
	return s.AttachQuiz(ctx, code, playerID, quiz)
}

// StartLobbyGame moves the lobby to playing and opens the first question for
// everyone. A finished game may be started again; a running one may not.
func (s *GameService) StartLobbyGame(ctx context.Context, code, playerID string) (domain.Lobby, error) {
	now := s.now()
	lobby, err := s.lobbies.Update(ctx, normalizeCode(code), func(l *domain.Lobby) error {
		if l.Host != playerID {
			return domain.ErrNotHost
		}
		if l.InProgress() {
			return domain.ErrLobbyAlreadyPlaying
		}
		if l.Quiz == nil || len(l.Quiz.Questions) == 0 {
			return domain.ErrLobbyHasNoQuiz
		}
		l.Status = domain.LobbyPlaying
		l.StartedAt = now
		l.CurrentQuestion = 0
		l.QuestionStartTime = now
		l.Scores = make(map[string]int, len(l.Players))
		for _, id := range l.Players {
			l.Scores[id] = 0
		}
		return nil
	})
	if err != nil {
		return domain.Lobby{}, err
	}
	log.Printf("lobby %s started with %d players", lobby.Code, len(lobby.Players))
	return lobby, nil
}

// LobbyLeaderboard ranks the lobby's players by their match score.
func (s *GameService) LobbyLeaderboard(ctx context.Context, code string) (domain.Leaderboard, error) {
	lobby, err := s.lobbies.Get(ctx, normalizeCode(code))
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return lobbyLeaderboard(lobby, s.now()), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
