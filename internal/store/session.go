package store

import (
	"sync"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
)

// SessionStore is a thread-safe in-memory store for order sessions,
// with a primary index by session key and a secondary index by amount key.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*domain.OrderSession
	byAmountKey map[string][]*domain.OrderSession // amount_key → sessions
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*domain.OrderSession),
		byAmountKey: make(map[string][]*domain.OrderSession),
	}
}

// Create adds a session to the store and indexes it by amount key.
func (s *SessionStore) Create(sess *domain.OrderSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Key] = sess
	s.byAmountKey[sess.AmountKey] = append(s.byAmountKey[sess.AmountKey], sess)
}

// Get retrieves a session by key. It returns domain.ErrSessionNotFound
// if the session does not exist.
func (s *SessionStore) Get(key string) (*domain.OrderSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[key]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// ListByAmountKey returns every pending session for the given amount key
// whose validity window contains ts. In correct operation at most one
// session is live per amount key; callers must still handle more.
func (s *SessionStore) ListByAmountKey(amountKey string, ts time.Time) []*domain.OrderSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.OrderSession
	for _, sess := range s.byAmountKey[amountKey] {
		if sess.Status == domain.SessionStatusPending && sess.WindowContains(ts) {
			matched = append(matched, sess)
		}
	}
	return matched
}

// Delete removes a session by key from both indexes. It returns true if
// the session was still resident, false if it was already gone, so a
// settlement and an expiry racing on the same session collapse to one
// winner and one harmless no-op.
func (s *SessionStore) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		return false
	}
	delete(s.sessions, key)

	peers := s.byAmountKey[sess.AmountKey]
	for i, p := range peers {
		if p.Key == key {
			s.byAmountKey[sess.AmountKey] = append(peers[:i], peers[i+1:]...)
			break
		}
	}
	if len(s.byAmountKey[sess.AmountKey]) == 0 {
		delete(s.byAmountKey, sess.AmountKey)
	}
	return true
}

// Count returns the number of resident sessions. Useful for testing and
// the stats endpoint.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
