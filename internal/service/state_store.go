package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore guarda los nonces de estado del flujo OAuth. Cada nonce es de
// un solo uso: Consume lo valida y lo elimina en la misma operación.
type StateStore interface {
	Put(state string, ttl time.Duration) error
	Consume(state string) (bool, error)
}

type memoryStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{
		items: make(map[string]time.Time),
	}
}

func (s *memoryStateStore) Put(state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(state) == "" {
		return nil
	}
	s.items[state] = time.Now().UTC().Add(ttl)
	return nil
}

func (s *memoryStateStore) Consume(state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false, nil
	}
	delete(s.items, state)
	if time.Now().UTC().After(exp) {
		return false, nil
	}
	return true, nil
}

type redisStateStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStateStore(client *redis.Client) StateStore {
	if client == nil {
		return nil
	}
	return &redisStateStore{
		client: client,
		prefix: "oauth:state:",
	}
}

func (s *redisStateStore) Put(state string, ttl time.Duration) error {
	if strings.TrimSpace(state) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return s.client.Set(ctx, s.prefix+state, "1", ttl).Err()
}

func (s *redisStateStore) Consume(state string) (bool, error) {
	if strings.TrimSpace(state) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := s.client.Del(ctx, s.prefix+state).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
