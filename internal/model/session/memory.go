package session

import (
	"context"
	"sync"
)

// MemoryStore implements Store with a process-local map. Suitable for
// single-instance deployments and tests; sessions do not survive a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id, languageCode string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.sessions[Key(id, languageCode)]
	if !ok {
		return nil, nil
	}
	return stored.clone(), nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[Key(sess.ID, sess.LanguageCode)] = sess.clone()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id, languageCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, Key(id, languageCode))
	return nil
}

// clone copies the session so callers and the store never share state.
func (s *Session) clone() *Session {
	copied := *s
	copied.Conditions = append([]Condition(nil), s.Conditions...)
	return &copied
}
