package store

import (
	"log/slog"
	"sync"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// Memory is a capacity-bounded in-memory session store. When the store is
// full, the least recently seen session is evicted to make room. Evicting a
// session forfeits its counters and any active cooldown for that key.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	capacity int
}

// NewMemory creates a session store holding at most capacity sessions.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		sessions: make(map[string]*domain.Session),
		capacity: capacity,
	}
}

// Get returns the session for the given key, creating it on first access.
func (m *Memory) Get(sessionID string) *domain.Session {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		m.touch(s)
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		s.LastSeenAt = now()
		return s
	}

	if len(m.sessions) >= m.capacity {
		m.evictOldestLocked()
	}

	t := now()
	s = &domain.Session{ID: sessionID, CreatedAt: t, LastSeenAt: t}
	m.sessions[sessionID] = s
	return s
}

// Evict removes a session, if present.
func (m *Memory) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Len returns the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Memory) touch(s *domain.Session) {
	m.mu.Lock()
	s.LastSeenAt = now()
	m.mu.Unlock()
}

// evictOldestLocked drops the least recently seen session. Caller holds mu.
func (m *Memory) evictOldestLocked() {
	var oldestID string
	var oldest *domain.Session
	for id, s := range m.sessions {
		if oldest == nil || s.LastSeenAt.Before(oldest.LastSeenAt) {
			oldestID, oldest = id, s
		}
	}
	if oldest != nil {
		delete(m.sessions, oldestID)
		slog.Info("Session evicted", "session_id", oldestID, "msgs", oldest.MessageCount)
	}
}
