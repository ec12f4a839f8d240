package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quizarena/internal/app"
)

// RoundStore is a Redis-aware implementation of app.RoundRepository.
// Notes:
//   - Rounds hold live timers and stay in a local map; a player keeps talking
//     to the instance that started their round.
//   - Redis marks liveness at round:{id} -> lobby code (or "solo"), so
//     operators can see active rounds across instances.
type RoundStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rounds map[string]*app.Round
}

func NewRoundStore(client *redis.Client, ttl time.Duration) *RoundStore {
	return &RoundStore{
		client: client,
		ttl:    ttl,
		rounds: make(map[string]*app.Round),
	}
}

func (s *RoundStore) Add(round *app.Round) {
	s.mu.Lock()
	s.rounds[round.ID()] = round
	s.mu.Unlock()

	owner := round.LobbyCode()
	if owner == "" {
		owner = "solo"
	}
	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(round.ID()), owner, s.ttl).Err(); err != nil {
		log.Printf("mark round %s live: %v", round.ID(), err)
	}
}

func (s *RoundStore) Get(roundID string) (*app.Round, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[roundID]
	return round, ok
}

func (s *RoundStore) Delete(roundID string) {
	s.mu.Lock()
	_, ok := s.rounds[roundID]
	delete(s.rounds, roundID)
	s.mu.Unlock()
	if ok {
		_ = s.client.Del(context.Background(), s.key(roundID)).Err()
	}
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

func (s *RoundStore) key(roundID string) string {
	return "round:" + roundID
}
