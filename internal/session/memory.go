package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process store. Sessions are held as
// values so every Save is a single atomic replace; readers never observe
// a half-applied update.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	clock    func() time.Time
}

// NewMemoryStore creates an in-memory store with the given idle TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		clock:    time.Now,
	}
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (Session, error) {
	now := m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s := New(id, now)
	m.sessions[id] = s
	return s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Session) error {
	s.LastTouchedAt = m.clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}

// SweepExpired removes every session idle for longer than the TTL. Safe
// to invoke concurrently with normal traffic.
func (m *MemoryStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.LastTouchedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the current number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
