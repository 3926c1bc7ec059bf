package pipeline

import (
	"sync"

	"github.com/couchcryptid/flood-risk-service/internal/domain"
)

// Session is the single last-known-location record kept per sender.
type Session struct {
	Location   domain.ResolvedLocation
	Assessment domain.RiskAssessment
}

// SessionStore keeps conversation sessions in memory, keyed by sender.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Get returns the session for sender, if any.
func (s *SessionStore) Get(sender string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sender]
	return session, ok
}

// Put stores or replaces the session for sender.
func (s *SessionStore) Put(sender string, session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sender] = session
}

// Delete removes the session for sender.
func (s *SessionStore) Delete(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sender)
}
