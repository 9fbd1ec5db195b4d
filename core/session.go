package core

import (
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"
)

// Observer is notified synchronously after each message append. It is an
// extension point (e.g. live transcript streaming); correctness of the
// engine never depends on observers being present.
type Observer func(sessionID string, msg Message)

// Session is the blackboard shared by the agents of one workflow run: an
// ordered message history plus a free-form key/value scratchpad agents use
// to pass structured artifacts between steps without re-serializing them
// through the transcript.
//
// A Session is passed by reference down the agent tree. Sequential and Loop
// children mutate it directly (they run one at a time); Parallel children
// must each receive a Snapshot so sibling writes stay invisible to one
// another and to the parent.
//
// Contract:
//   - History order is append-only within a run (composites may clear and
//     reseed between children, never reorder).
//   - Data keys follow last-write-wins semantics; later pipeline stages
//     overwrite earlier ones intentionally.
//   - All methods are safe for concurrent use.
type Session struct {
	ID      string
	Created time.Time
	Updated time.Time

	mu        sync.RWMutex
	history   []Message
	data      map[string]any
	observers []Observer
}

// NewSession creates an empty session with the given id.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:      id,
		Created: now,
		Updated: now,
		data:    map[string]any{},
	}
}

// AddMessage appends to the history and notifies observers. Observers run
// synchronously while no lock is held, in subscription order.
func (s *Session) AddMessage(msg Message) {
	s.mu.Lock()
	s.history = append(s.history, msg)
	s.Updated = time.Now().UTC()
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(s.ID, msg)
	}
}

// History returns a copy of the transcript; callers may mutate it freely.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Message, len(s.history))
	copy(history, s.history)
	return history
}

// HistoryLen returns the current transcript length.
func (s *Session) HistoryLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// LastMessage returns the most recent message and true, or a zero Message
// and false on an empty history.
func (s *Session) LastMessage() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return Message{}, false
	}
	return s.history[len(s.history)-1], true
}

// FirstMessage returns the oldest message and true, or false when empty.
func (s *Session) FirstMessage() (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return Message{}, false
	}
	return s.history[0], true
}

// ClearHistory drops the transcript. Used by composites that bound context
// growth between pipeline stages.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.Updated = time.Now().UTC()
}

// Set writes a scratchpad value. Later writers overwrite earlier ones.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.Updated = time.Now().UTC()
}

// Get reads a scratchpad value and reports whether the key exists.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Data returns a shallow copy of the scratchpad map.
func (s *Session) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Subscribe registers an observer for subsequent appends.
func (s *Session) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a value-semantics copy of the session: the history slice
// is copied and the scratchpad is deep-copied so mutations on the snapshot
// can never reach the original. Observers are not carried over; a snapshot
// is a private working state, not a shared one.
func (s *Session) Snapshot() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := &Session{
		ID:      s.ID,
		Created: s.Created,
		Updated: s.Updated,
		history: make([]Message, len(s.history)),
		data:    map[string]any{},
	}
	copy(clone.history, s.history)
	if err := deepcopy.Copy(&clone.data, &s.data); err != nil {
		// Fall back to a shallow copy for values deepcopy cannot handle
		// (functions, channels). Isolation then only covers the map itself.
		for k, v := range s.data {
			clone.data[k] = v
		}
	}
	return clone
}
