package session

import (
	"sync"

	"github.com/bastiangx/wordexpand/pkg/expand"
)

// Manager keeps one Session per buffer id and hands every session the latest
// trigger list.
type Manager struct {
	mu       sync.RWMutex
	expander expand.Expander
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions start with ex.
func NewManager(ex expand.Expander) *Manager {
	return &Manager{
		expander: ex,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it when needed.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s = New(m.expander)
	m.sessions[id] = s
	return s
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close drops the session for id.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SetExpander pushes a new trigger list to every session. Its signature fits
// triggers.Store.Subscribe.
func (m *Manager) SetExpander(ix *expand.Index) {
	if ix == nil {
		return
	}
	m.mu.Lock()
	m.expander = ix
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.SetExpander(ix)
	}
}
