package memory

import (
	"context"
	"sort"
	"sync"

	"quizarena/internal/domain"
)

// LobbyStore is an in-memory implementation of app.LobbyRepository.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[string]domain.Lobby
}

func NewLobbyStore() *LobbyStore {
	return &LobbyStore{lobbies: make(map[string]domain.Lobby)}
}

func (s *LobbyStore) Create(_ context.Context, lobby domain.Lobby) error {
	if err := lobby.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[lobby.Code]; ok {
		return domain.ErrLobbyCodeTaken
	}
	s.lobbies[lobby.Code] = cloneLobby(lobby)
	return nil
}

func (s *LobbyStore) Get(_ context.Context, code string) (domain.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lobby, ok := s.lobbies[code]
	if !ok {
		return domain.Lobby{}, domain.ErrLobbyNotFound
	}
	return cloneLobby(lobby), nil
}

func (s *LobbyStore) Update(_ context.Context, code string, fn func(*domain.Lobby) error) (domain.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.lobbies[code]
	if !ok {
		return domain.Lobby{}, domain.ErrLobbyNotFound
	}
	next := cloneLobby(current)
	if err := fn(&next); err != nil {
		return domain.Lobby{}, err
	}
	if err := next.Validate(); err != nil {
		return domain.Lobby{}, err
	}
	s.lobbies[code] = next
	return cloneLobby(next), nil
}

func (s *LobbyStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, code)
	return nil
}

// List returns all lobbies ordered by code.
func (s *LobbyStore) List(_ context.Context) ([]domain.Lobby, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Lobby, 0, len(s.lobbies))
	for _, l := range s.lobbies {
		out = append(out, cloneLobby(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// cloneLobby copies the roster and score map so callers never share them with the store.
// The quiz is immutable and stays shared.
func cloneLobby(l domain.Lobby) domain.Lobby {
	l.Players = append([]string(nil), l.Players...)
	l.PlayerNames = append([]string(nil), l.PlayerNames...)
	scores := make(map[string]int, len(l.Scores))
	for k, v := range l.Scores {
		scores[k] = v
	}
	l.Scores = scores
	return l
}
