package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/mysticcastle/engine"
)

// session is one player's game. mu serializes commands against it.
type session struct {
	id       string
	mu       sync.Mutex
	engine   *engine.Engine
	lastSeen time.Time
}

// Store keeps live sessions in memory, keyed by id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

// NewStore creates a store that forgets sessions idle for longer than ttl.
// A zero ttl keeps sessions until they are deleted.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// Create registers a new session for eng and returns it.
func (s *Store) Create(eng *engine.Engine, now time.Time) *session {
	sess := &session{
		id:       uuid.NewString(),
		engine:   eng,
		lastSeen: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.id] = sess
	return sess
}

// Get returns the session with the given id and marks it as seen.
func (s *Store) Get(id string, now time.Time) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = now
	}
	return sess, ok
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Prune drops sessions idle since before now-ttl and returns how many.
func (s *Store) Prune(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
