package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "spendview_session"

type session struct {
	username  string
	expiresAt time.Time
}

// SessionStore keeps login sessions in memory. Sessions do not survive a
// restart, which is acceptable for a single-user dashboard.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// Create issues a new session token for the given user.
func (s *SessionStore) Create(username string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		username:  username,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Validate returns the username for a live session token.
func (s *SessionStore) Validate(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", false
	}
	return sess.username, true
}

// Revoke drops a session, used on logout.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// CleanExpired removes expired sessions and returns how many were dropped.
func (s *SessionStore) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *SessionStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
