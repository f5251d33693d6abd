package session

import (
	"fmt"
	"sync"

	"github.com/zapdash/tap-rewards/internal/storage"
)

// Manager hands out one session per chat. Each chat gets its own key
// namespace on the shared store, so the single-visitor key layout holds
// per chat.
type Manager struct {
	mu       sync.RWMutex
	kv       storage.KV
	opts     Options
	sessions map[int64]*Session
}

// NewManager creates a manager over kv.
func NewManager(kv storage.KV, opts Options) *Manager {
	return &Manager{
		kv:       kv,
		opts:     opts,
		sessions: make(map[int64]*Session),
	}
}

// Get returns the session for chatID, establishing it on first use.
func (m *Manager) Get(chatID int64) *Session {
	m.mu.RLock()
	s, ok := m.sessions[chatID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}

	kv := storage.Namespace(m.kv, fmt.Sprintf("chat_%d:", chatID))
	s = New(kv, m.opts)
	m.sessions[chatID] = s
	return s
}

// ForEach calls fn for every established session.
func (m *Manager) ForEach(fn func(chatID int64, s *Session)) {
	m.mu.RLock()
	chats := make(map[int64]*Session, len(m.sessions))
	for id, s := range m.sessions {
		chats[id] = s
	}
	m.mu.RUnlock()

	for id, s := range chats {
		fn(id, s)
	}
}
