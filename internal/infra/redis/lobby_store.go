package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"quizarena/internal/domain"
)

const lobbyUpdateRetries = 8

// LobbyStore keeps each lobby as a JSON document at lobby:{code}. Updates are
// optimistic WATCH/MULTI transactions, so concurrent players polling the same
// lobby never lose each other's score writes.
type LobbyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLobbyStore(client *redis.Client, ttl time.Duration) *LobbyStore {
	return &LobbyStore{client: client, ttl: ttl}
}

func (s *LobbyStore) Create(ctx context.Context, lobby domain.Lobby) error {
	if err := lobby.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(lobby)
	if err != nil {
		return fmt.Errorf("marshal lobby: %w", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(lobby.Code), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store lobby %s: %w", lobby.Code, err)
	}
	if !ok {
		return domain.ErrLobbyCodeTaken
	}
	return nil
}

func (s *LobbyStore) Get(ctx context.Context, code string) (domain.Lobby, error) {
	data, err := s.client.Get(ctx, s.key(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Lobby{}, domain.ErrLobbyNotFound
	}
	if err != nil {
		return domain.Lobby{}, fmt.Errorf("load lobby %s: %w", code, err)
	}
	return decodeLobby(data)
}

func (s *LobbyStore) Update(ctx context.Context, code string, fn func(*domain.Lobby) error) (domain.Lobby, error) {
	key := s.key(code)
	var updated domain.Lobby

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrLobbyNotFound
		}
		if err != nil {
			return fmt.Errorf("load lobby %s: %w", code, err)
		}
		lobby, err := decodeLobby(data)
		if err != nil {
			return err
		}
		if err := fn(&lobby); err != nil {
			return err
		}
		if err := lobby.Validate(); err != nil {
			return err
		}
		out, err := json.Marshal(lobby)
		if err != nil {
			return fmt.Errorf("marshal lobby: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			updated = lobby
		}
		return err
	}

	for i := 0; i < lobbyUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.Lobby{}, err
		}
		return updated, nil
	}
	return domain.Lobby{}, fmt.Errorf("update lobby %s: %w", code, redis.TxFailedErr)
}

func (s *LobbyStore) Delete(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, s.key(code)).Err(); err != nil {
		return fmt.Errorf("delete lobby %s: %w", code, err)
	}
	return nil
}

// List scans every lobby key. Lobbies that expire mid-scan are skipped.
func (s *LobbyStore) List(ctx context.Context) ([]domain.Lobby, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.key("*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan lobbies: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load lobbies: %w", err)
	}
	lobbies := make([]domain.Lobby, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		lobby, err := decodeLobby([]byte(raw))
		if err != nil {
			return nil, err
		}
		lobbies = append(lobbies, lobby)
	}
	sort.Slice(lobbies, func(i, j int) bool { return lobbies[i].Code < lobbies[j].Code })
	return lobbies, nil
}

func (s *LobbyStore) key(code string) string {
	return "lobby:" + strings.ToUpper(code)
}

func decodeLobby(data []byte) (domain.Lobby, error) {
	var lobby domain.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return domain.Lobby{}, fmt.Errorf("unmarshal lobby: %w", err)
	}
	if lobby.Scores == nil {
		lobby.Scores = make(map[string]int)
	}
	return lobby, nil
}
