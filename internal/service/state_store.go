package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/metrics"
)

var ErrSessionNotFound = errors.New("session not found")

// StateStore es el unico dueño del estado de cada sesion.
type StateStore interface {
	Create(ctx context.Context) (domain.AppState, error)
	Get(ctx context.Context, sessionID string) (domain.AppState, error)
	Dispatch(ctx context.Context, sessionID string, action Action) (domain.AppState, error)
}

// applyAction corre la accion sobre una copia y solo la devuelve si no hubo error.
func applyAction(state domain.AppState, action Action, now time.Time) (domain.AppState, error) {
	next := state.Clone()
	if err := action.Apply(&next, now); err != nil {
		return state, err
	}
	next.UpdatedAt = now
	return next, nil
}

type memoryEntry struct {
	state     domain.AppState
	expiresAt time.Time
}

type memoryStateStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]*memoryEntry
	now   func() time.Time
}

// NewMemoryStateStore guarda las sesiones en memoria; expiran tras ttl sin actividad.
func NewMemoryStateStore(ttl time.Duration) StateStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &memoryStateStore{
		ttl:   ttl,
		items: make(map[string]*memoryEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryStateStore) Create(_ context.Context) (domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	state := domain.NewAppState(uuid.NewString(), now)
	s.items[state.SessionID] = &memoryEntry{state: state, expiresAt: now.Add(s.ttl)}
	return state.Clone(), nil
}

func (s *memoryStateStore) Get(_ context.Context, sessionID string) (domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.lookup(sessionID, s.now())
	if err != nil {
		return domain.AppState{}, err
	}
	return entry.state.Clone(), nil
}

func (s *memoryStateStore) Dispatch(_ context.Context, sessionID string, action Action) (domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	entry, err := s.lookup(sessionID, now)
	if err != nil {
		return domain.AppState{}, err
	}
	next, err := applyAction(entry.state, action, now)
	metrics.RecordStateAction(action.Name(), err)
	if err != nil {
		return entry.state.Clone(), err
	}
	entry.state = next
	entry.expiresAt = now.Add(s.ttl)
	return next.Clone(), nil
}

func (s *memoryStateStore) lookup(sessionID string, now time.Time) (*memoryEntry, error) {
	entry, ok := s.items[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if now.After(entry.expiresAt) {
		delete(s.items, sessionID)
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

func (s *memoryStateStore) sweep(now time.Time) {
	for id, entry := range s.items {
		if now.After(entry.expiresAt) {
			delete(s.items, id)
		}
	}
}

// redisStateClient es el subconjunto de redis.Client que usa el store.
type redisStateClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
}

type redisStateStore struct {
	client     redisStateClient
	ttl        time.Duration
	prefix     string
	maxRetries int
	now        func() time.Time
}

// NewRedisStateStore guarda cada sesion como snapshot JSON con TTL.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) StateStore {
	if client == nil {
		return nil
	}
	return newRedisStateStore(client, ttl)
}

func newRedisStateStore(client redisStateClient, ttl time.Duration) *redisStateStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisStateStore{
		client:     client,
		ttl:        ttl,
		prefix:     "skincare:state:",
		maxRetries: 5,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *redisStateStore) Create(ctx context.Context) (domain.AppState, error) {
	state := domain.NewAppState(uuid.NewString(), s.now())
	data, err := json.Marshal(state)
	if err != nil {
		return domain.AppState{}, fmt.Errorf("marshal state: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+state.SessionID, data, s.ttl).Err(); err != nil {
		return domain.AppState{}, err
	}
	return state, nil
}

func (s *redisStateStore) Get(ctx context.Context, sessionID string) (domain.AppState, error) {
	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AppState{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.AppState{}, err
	}
	return decodeState(data)
}

// Dispatch aplica la accion dentro de un WATCH; si otro escritor gana, reintenta.
func (s *redisStateStore) Dispatch(ctx context.Context, sessionID string, action Action) (domain.AppState, error) {
	key := s.prefix + sessionID
	var (
		result    domain.AppState
		actionErr error
	)
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeState(data)
		if err != nil {
			return err
		}
		next, err := applyAction(current, action, s.now())
		if err != nil {
			result, actionErr = current, err
			return nil
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("marshal state: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result, actionErr = next, nil
		return nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return domain.AppState{}, err
		}
		metrics.RecordStateAction(action.Name(), actionErr)
		return result, actionErr
	}
	return domain.AppState{}, fmt.Errorf("dispatch %s: too much contention", action.Name())
}

func decodeState(data []byte) (domain.AppState, error) {
	var state domain.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.AppState{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}
