package redis

import (
	"context"
	"sync"
	"time"

	"cricket-stats-game/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Sessions live in process; Redis carries a liveness marker per game so other
// instances and operators can see which games are in flight.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Create(gameID string) *app.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := app.NewSession(gameID)
	s.sessions[gameID] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(gameID), "1", s.ttl).Err()
	return session
}

func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[gameID]
	s.mu.RUnlock()
	if ok && s.ttl > 0 {
		_ = s.client.Expire(context.Background(), s.key(gameID), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[gameID]; !ok {
		return
	}
	delete(s.sessions, gameID)
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

// Release drops the session and its liveness key only if gameID still maps to session.
func (s *SessionStore) Release(gameID string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[gameID]; !ok || current != session {
		return
	}
	delete(s.sessions, gameID)
	_ = s.client.Del(context.Background(), s.key(gameID)).Err()
}

func (s *SessionStore) key(gameID string) string {
	return "game:session:" + gameID
}
