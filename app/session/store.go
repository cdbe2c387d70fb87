package session

import (
	"sync"

	"maplewood-records/app/models"
)

// Store is the server-side session table, keyed by session ID. Stored
// sessions are immutable: updates go through Put with a fresh value, never
// by writing fields of a session already handed out, so the RWMutex only
// has to guard the map itself.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*models.Session)}
}

func (s *Store) Get(id string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Put(sess *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
