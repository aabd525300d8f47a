// Package core holds the shared contracts of the agent side of the
// application: conversation content parts, sessions with their stores, the
// artifact store and the context handed to tool implementations.
package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one entry in a session's history: who produced which content and
// when.
type Event struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"` // Agent or front-end identifier
	Content   *Content  `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent constructs an event with a fresh id and current timestamp.
func NewEvent(author string, content Content) Event {
	return Event{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   &content,
		Timestamp: time.Now(),
	}
}

// Session is a conversational container tracking mutable key/value state
// plus an ordered event history. Safe for concurrent access.
type Session struct {
	ID      string         `json:"id"`
	State   map[string]any `json:"state"`
	Events  []Event        `json:"events"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	mu      sync.RWMutex
}

// NewSession creates an empty session with the given id.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, State: map[string]any{}, Created: now, Updated: now}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair, updating the Updated timestamp.
func (s *Session) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// AddEvent appends an event to the history.
func (s *Session) AddEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, ev)
	s.Updated = time.Now()
}

// GetEvents returns a defensive copy of the event history.
func (s *Session) GetEvents() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return events
}

// ConversationHistory returns the events suitable as model context: user,
// assistant and tool roles only.
func (s *Session) ConversationHistory() []Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allowed := map[string]bool{"user": true, "assistant": true, "tool": true}
	out := make([]Content, 0, len(s.Events))
	for _, ev := range s.Events {
		if ev.Content == nil || !allowed[ev.Content.Role] {
			continue
		}
		out = append(out, *ev.Content)
	}
	return out
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:      s.ID,
		State:   make(map[string]any, len(s.State)),
		Events:  make([]Event, len(s.Events)),
		Created: s.Created,
		Updated: s.Updated,
	}
	for k, v := range s.State {
		clone.State[k] = v
	}
	copy(clone.Events, s.Events)
	return clone
}

// SessionStore persists sessions and their evolving state and history.
type SessionStore interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	AppendEvent(sessionID string, event Event) error
}
