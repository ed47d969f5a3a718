package store

import (
	"sync"
	"time"
)

// amountLock is one reservation row: the amount key plus its hard expiry.
type amountLock struct {
	amountKey    string
	hardExpireAt time.Time
}

// LockStore is a thread-safe store of amount locks keyed by amount key.
// It models a collection with a unique index on amount_key and a TTL on
// hard_expire_at: an expired row is treated as absent by Reserve, so
// reclamation works even before the sweeper gets to it.
type LockStore struct {
	mu    sync.Mutex
	locks map[string]amountLock
}

// NewLockStore creates an empty LockStore.
func NewLockStore() *LockStore {
	return &LockStore{
		locks: make(map[string]amountLock),
	}
}

// Reserve atomically inserts a lock for key. It returns false if the key
// is already held by a non-expired lock. A resident lock whose expiry has
// passed is overwritten as if the row never existed (lazy reclaim).
func (s *LockStore) Reserve(key string, hardExpireAt, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.locks[key]; ok && existing.hardExpireAt.After(now) {
		return false
	}
	s.locks[key] = amountLock{amountKey: key, hardExpireAt: hardExpireAt}
	return true
}

// Release unconditionally deletes the lock for key. Releasing an absent
// key is a no-op.
func (s *LockStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, key)
}

// ReleaseIfExpiredBy deletes the lock for key only when its hard expiry
// is at or before cutoff. A session finishing late passes its own
// hardExpireAt as the cutoff, so it can never discard a newer lock that
// reclaimed the key after the session's lock lapsed. It reports whether
// a lock was deleted.
func (s *LockStore) ReleaseIfExpiredBy(key string, cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok || l.hardExpireAt.After(cutoff) {
		return false
	}
	delete(s.locks, key)
	return true
}

// Held reports whether a non-expired lock exists for key.
func (s *LockStore) Held(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	return ok && l.hardExpireAt.After(now)
}

// ExpireDue removes every lock whose hard expiry is at or before now and
// returns the removed keys. Used by the background sweeper.
func (s *LockStore) ExpireDue(now time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []string
	for key, l := range s.locks {
		if !l.hardExpireAt.After(now) {
			due = append(due, key)
			delete(s.locks, key)
		}
	}
	return due
}

// Count returns the number of resident locks, expired or not.
// Useful for testing.
func (s *LockStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
