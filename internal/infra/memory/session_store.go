package memory

import (
	"context"
	"sync"
	"time"

	"geoquiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Entries expire ttl after their last save; a ttl <= 0 keeps them for the
// life of the process.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu        sync.RWMutex
	sessions  map[string]storedSession
	lastSweep time.Time
}

type storedSession struct {
	state     domain.SessionState
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]storedSession),
	}
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (domain.SessionState, error) {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.sessions[sessionID]
	if !ok || s.expired(entry, now) {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	return entry.state, nil
}

func (s *SessionStore) Save(_ context.Context, state domain.SessionState) error {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	entry := storedSession{state: state}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.sessions[state.ID] = entry
	return nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len reports how many live sessions are held, dropping expired ones first.
func (s *SessionStore) Len() int {
	now := s.clock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSweep = time.Time{}
	s.sweepLocked(now)
	return len(s.sessions)
}

// sweepLocked removes expired entries, at most once per tenth of the ttl.
func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl/10 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func (s *SessionStore) expired(entry storedSession, now time.Time) bool {
	return s.ttl > 0 && !entry.expiresAt.After(now)
}
