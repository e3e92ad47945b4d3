package data

import (
	"errors"
	"sync"
	"time"

	"github.com/giygas/polypill-api/interfaces"
	"github.com/giygas/polypill-api/regimen"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

var _ interfaces.SessionStore = (*SessionStore)(nil)

type session struct {
	mu         sync.Mutex
	state      regimen.State
	lastAccess time.Time
}

// SessionStore keeps regimen states in memory, keyed by a random id.
// The map lock guards membership; each session has its own lock so that
// slow updates on one session never block another.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	max      int
	now      func() time.Time
}

// NewSessionStore creates a store holding at most maxSessions sessions
func NewSessionStore(maxSessions int) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		max:      maxSessions,
		now:      time.Now,
	}
}

// Create starts a session with an empty regimen
func (s *SessionStore) Create() (string, regimen.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return "", regimen.State{}, ErrTooManySessions
	}

	id := uuid.NewString()
	s.sessions[id] = &session{lastAccess: s.now()}
	return id, regimen.State{}, nil
}

func (s *SessionStore) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns a copy of the session's state
func (s *SessionStore) Get(id string) (regimen.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return regimen.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastAccess = s.now()
	return sess.state.Clone(), nil
}

// Update replaces the session's state with fn's result. fn receives a copy
// and runs under the session lock.
func (s *SessionStore) Update(id string, fn func(regimen.State) regimen.State) (regimen.State, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return regimen.State{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state = fn(sess.state.Clone())
	sess.lastAccess = s.now()
	return sess.state.Clone(), nil
}

// Delete discards a session, reporting whether it existed
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// EvictIdle removes sessions not touched within ttl and returns how many went
func (s *SessionStore) EvictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastAccess.Before(cutoff)
		sess.mu.Unlock()

		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
