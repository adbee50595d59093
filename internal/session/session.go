// Package session keeps short-lived conversation state per WhatsApp
// chat. State is memory-only: losing it on restart is acceptable, the
// bot just asks the user to repeat.
package session

import (
	"sync"
	"time"
)

// Session is the per-chat conversational context the matchers read and
// write.
type Session struct {
	// LastLink is the most recent registration form URL handed to the
	// user. Empty when none is on record.
	LastLink string
	// PendingCourses holds the titles the conversation is currently
	// about. One element means a concrete course is in focus; several
	// mean the user still has to pick one.
	PendingCourses []string
	// UpdatedAt is the last time this chat showed activity.
	UpdatedAt time.Time
}

// Store is a concurrency-safe session map keyed by chat ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty store using the wall clock.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewStoreWithClock creates a store with an injected clock for tests.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.now = now
	return s
}

// Get returns a copy of the chat's session, creating a fresh one on
// first contact. The copy is safe to mutate; call Save to persist it.
func (s *Store) Get(chatID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &Session{UpdatedAt: s.now()}
		s.sessions[chatID] = sess
	}
	out := *sess
	out.PendingCourses = append([]string(nil), sess.PendingCourses...)
	return out
}

// Save writes the session back and refreshes its activity timestamp.
func (s *Store) Save(chatID string, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.UpdatedAt = s.now()
	stored := sess
	stored.PendingCourses = append([]string(nil), sess.PendingCourses...)
	s.sessions[chatID] = &stored
}

// Touch refreshes the chat's activity timestamp without changing state.
// A no-op for unknown chats.
func (s *Store) Touch(chatID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.UpdatedAt = s.now()
	}
}

// Sweep deletes sessions idle for longer than ttl and returns how many
// were removed.
func (s *Store) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
