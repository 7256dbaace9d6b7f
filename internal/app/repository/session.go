// internal/app/repository/session.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/redis"
)

// ErrSessionNotFound сессия не существует или истекла
var ErrSessionNotFound = errors.New("session not found")

// SessionStore хранилище состояния сессий. Каждая сессия хранится целиком
// и целиком заменяется при сохранении.
type SessionStore interface {
	Save(ctx context.Context, s *ds.Session) error
	Load(ctx context.Context, id string) (*ds.Session, error)
	Delete(ctx context.Context, id string) error
	// Touch продлевает срок жизни сессии без ее изменения
	Touch(ctx context.Context, id string) error
}

func encodeSession(s *ds.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	return data, nil
}

func decodeSession(id string, data []byte) (*ds.Session, error) {
	var s ds.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &s, nil
}

// ==================== Redis ====================

type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (r *RedisSessionStore) Save(ctx context.Context, s *ds.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	return r.client.SaveSession(ctx, s.ID, data, r.ttl)
}

func (r *RedisSessionStore) Load(ctx context.Context, id string) (*ds.Session, error) {
	data, err := r.client.GetSession(ctx, id)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(id, data)
}

func (r *RedisSessionStore) Touch(ctx context.Context, id string) error {
	// Без TTL ключ хранится бессрочно
	if r.ttl <= 0 {
		return nil
	}
	err := r.client.RefreshSession(ctx, id, r.ttl)
	if errors.Is(err, redis.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.client.DeleteSession(ctx, id)
}

// ==================== В памяти ====================

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemorySessionStore хранилище сессий в памяти процесса, используется без Redis
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Save(_ context.Context, s *ds.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	entry := memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.sessions[s.ID] = entry
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context, id string) (*ds.Session, error) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok && m.expired(entry) {
		delete(m.sessions, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(id, entry.data)
}

func (m *MemorySessionStore) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok || m.expired(entry) {
		delete(m.sessions, id)
		return ErrSessionNotFound
	}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
		m.sessions[id] = entry
	}
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len возвращает число неистекших сессий
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	return len(m.sessions)
}

func (m *MemorySessionStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

// sweep удаляет истекшие сессии, вызывается под m.mu
func (m *MemorySessionStore) sweep() {
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
		}
	}
}
