package session

import (
	"fmt"
	"sync"

	"github.com/astra-agents/astra/core"
	"github.com/google/uuid"
)

// Store creates and resolves sessions for workflow runs.
type Store interface {
	// Create allocates a new session and returns it.
	Create() (*core.Session, error)
	// Get resolves an existing session by id.
	Get(id string) (*core.Session, error)
}

// InMemoryStore is a volatile Store keeping sessions in a process-local
// map. It is safe for concurrent access and suited to tests and ephemeral
// servers. Unlike a durable store it hands out the live session pointer:
// the session is the shared blackboard of a run, so callers and agents must
// see the same instance.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: map[string]*core.Session{}}
}

// Create allocates a session under a fresh uuid.
func (s *InMemoryStore) Create() (*core.Session, error) {
	sess := core.NewSession(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get resolves a session by id.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q not found", id)
	}
	return sess, nil
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
