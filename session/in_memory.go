// Package session provides session persistence: an in-memory store for
// interactive use and compressed pipeline snapshots for save/restore.
package session

import (
	"fmt"
	"sync"

	"github.com/shingyusik/scientific-analysis-agent/core"
)

// InMemoryStore keeps sessions in a map. Get returns the live session, so
// events appended through the store are visible to holders of the pointer.
// Safe for concurrent use.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create makes a new session under id.
func (s *InMemoryStore) Create(id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}
	session := core.NewSession(id)
	s.sessions[id] = session
	return session, nil
}

// Get returns the session with the given id.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, nil
}

// AppendEvent appends an event to the session's history.
func (s *InMemoryStore) AppendEvent(sessionID string, event core.Event) error {
	session, err := s.Get(sessionID)
	if err != nil {
		return err
	}
	session.AddEvent(event)
	return nil
}

// Delete removes a session. Missing ids are not an error.
func (s *InMemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// IDs returns the ids of all stored sessions.
func (s *InMemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
