package memory

import (
	"sync"

	"quizarena/internal/app"
)

// RoundStore is an in-memory implementation of app.RoundRepository.
type RoundStore struct {
	mu     sync.RWMutex
	rounds map[string]*app.Round
}

func NewRoundStore() *RoundStore {
	return &RoundStore{
		rounds: make(map[string]*app.Round),
	}
}

func (s *RoundStore) Add(round *app.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[round.ID()] = round
}

func (s *RoundStore) Get(roundID string) (*app.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[roundID]
	return round, ok
}

func (s *RoundStore) Delete(roundID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rounds, roundID)
}

func (s *RoundStore) List() []*app.Round {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		out = append(out, r)
	}
	return out
}

// Len reports how many rounds are live.
func (s *RoundStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}
