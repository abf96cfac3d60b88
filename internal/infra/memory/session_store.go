package memory

import (
	"sync"

	"cricket-stats-game/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*app.Session),
	}
}

// Create replaces any session stored under gameID with a fresh one.
func (s *SessionStore) Create(gameID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := app.NewSession(gameID)
	s.sessions[gameID] = session
	return session
}

func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[gameID]
	return session, ok
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gameID)
}

func (s *SessionStore) Release(gameID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[gameID]; ok && current == session {
		delete(s.sessions, gameID)
	}
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
