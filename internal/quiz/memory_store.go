package quiz

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultSessionTTL = 30 * time.Minute

// MemoryStore is the default single-process session store: a mutex-guarded
// map with TTL eviction. Sessions are copied on the way in and out so callers
// never share live map state, and the sweep can run concurrently with
// submissions without exposing a half-evicted session.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return errors.New("session id already in use")
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.IdleSince(m.now(), m.ttl) {
		// Late lookup against an idle session evicts it on the spot, so a
		// straggling submission and the sweeper observe the same outcome.
		delete(m.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (m *MemoryStore) CompareAndSwap(_ context.Context, expectedIndex int, session *Session) error {
	if session == nil {
		return errors.New("session is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[session.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if current.IdleSince(m.now(), m.ttl) {
		delete(m.sessions, session.ID)
		return ErrSessionNotFound
	}
	if current.CurrentIndex != expectedIndex {
		return ErrVersionConflict
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) EvictExpired(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	evicted := 0
	for id, session := range m.sessions {
		if session.IdleSince(now, m.ttl) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len reports the number of live sessions. Used by tests and diagnostics.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartSweeper evicts idle sessions on the given interval until ctx ends.
func (m *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, _ = m.EvictExpired(ctx)
			}
		}
	}()
}
