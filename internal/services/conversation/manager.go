package conversation

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager holds the live sessions for the HTTP server. Sessions are
// created on first contact and dropped when they sit idle past the
// sweep age.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, creating it when the id is
// blank or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if session, ok := m.sessions[id]; ok {
			return session
		}
	}

	session := NewSession(id, m.deps)
	m.sessions[session.ID()] = session

	m.deps.Logger.Info("Session created",
		zap.String("session_id", session.ID()),
		zap.Int("active_sessions", len(m.sessions)),
	)
	return session
}

// Get returns the session for id if it exists.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle longer than maxIdle and reports how many
// were removed. The server runs this periodically; expired sessions
// that are contacted again before a sweep reset themselves instead.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	snapshot := make(map[string]*Session, len(m.sessions))
	for id, session := range m.sessions {
		snapshot[id] = session
	}
	m.mu.Unlock()

	// LastSeen waits on sessions that are mid-turn, so it is checked
	// without holding the manager lock.
	idle := make([]string, 0)
	for id, session := range snapshot {
		last := session.LastSeen()
		if !last.IsZero() && time.Since(last) > maxIdle {
			idle = append(idle, id)
		}
	}
	if len(idle) == 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range idle {
		delete(m.sessions, id)
	}

	m.deps.Logger.Info("Idle sessions swept",
		zap.Int("removed", len(idle)),
		zap.Int("active_sessions", len(m.sessions)),
	)
	return len(idle)
}
