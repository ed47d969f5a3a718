package store

import (
	"sync"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
)

// PayLogStore is an append-only, thread-safe log of parsed payment
// notifications, ordered by receipt.
type PayLogStore struct {
	mu      sync.RWMutex
	entries []domain.PaymentLogEntry
}

// NewPayLogStore creates an empty PayLogStore.
func NewPayLogStore() *PayLogStore {
	return &PayLogStore{}
}

// Append records one entry.
func (s *PayLogStore) Append(e domain.PaymentLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// ListSince returns all entries with a timestamp at or after ts, for
// manual reconciliation of unmatched payments.
func (s *PayLogStore) ListSince(ts time.Time) []domain.PaymentLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.PaymentLogEntry
	for _, e := range s.entries {
		if !e.Timestamp.Before(ts) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of logged entries.
func (s *PayLogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
