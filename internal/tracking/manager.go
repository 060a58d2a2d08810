package tracking

import (
	"sort"
	"sync"
)

// Scope decides how sessions are shared between chats.
type Scope string

const (
	// ScopeGlobal shares one session across every chat the bot serves.
	ScopeGlobal Scope = "global"
	// ScopeChat keeps a separate session per chat.
	ScopeChat Scope = "chat"
)

// GlobalKey is the key under which the shared session is listed.
const GlobalKey int64 = 0

// Manager hands out the session responsible for a chat.
type Manager struct {
	mu       sync.Mutex
	scope    Scope
	excluded []string
	sessions map[int64]*Session
}

// NewManager creates a manager. Unknown scopes fall back to ScopeGlobal.
func NewManager(scope Scope, excluded []string) *Manager {
	if scope != ScopeChat {
		scope = ScopeGlobal
	}
	return &Manager{
		scope:    scope,
		excluded: append([]string(nil), excluded...),
		sessions: make(map[int64]*Session),
	}
}

// Scope returns the configured scope.
func (m *Manager) Scope() Scope {
	return m.scope
}

// For returns the session for chatID, creating it on first use.
func (m *Manager) For(chatID int64) *Session {
	key := m.key(chatID)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	if !ok {
		s = NewSession(m.excluded)
		m.sessions[key] = s
	}
	return s
}

// Lookup returns the session for chatID without creating one.
func (m *Manager) Lookup(chatID int64) (*Session, bool) {
	key := m.key(chatID)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[key]
	return s, ok
}

// Keys lists the keys of existing sessions in ascending order.
func (m *Manager) Keys() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]int64, 0, len(m.sessions))
	for k := range m.sessions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m *Manager) key(chatID int64) int64 {
	if m.scope == ScopeGlobal {
		return GlobalKey
	}
	return chatID
}

// RemoveUser drops the participant from every existing session.
func (m *Manager) RemoveUser(id int64) {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.RemoveUser(id)
	}
}
