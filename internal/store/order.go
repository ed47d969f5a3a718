package store

import (
	"sync"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
)

// orderKey identifies an access record: one order per buyer per resource.
type orderKey struct {
	buyerID    string
	resourceID string
}

// OrderStore is a thread-safe in-memory store for post-sale access
// records, keyed by (buyer, resource).
type OrderStore struct {
	mu     sync.RWMutex
	orders map[orderKey]*domain.Order
}

// NewOrderStore creates an empty OrderStore.
func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[orderKey]*domain.Order),
	}
}

// Upsert inserts or replaces the access record for (buyer, resource).
// Settlement calls this again on re-purchase; last write wins.
func (s *OrderStore) Upsert(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[orderKey{o.BuyerID, o.ResourceID}] = o
}

// Get retrieves the access record for (buyer, resource). It returns
// domain.ErrOrderNotFound if none exists.
func (s *OrderStore) Get(buyerID, resourceID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderKey{buyerID, resourceID}]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}
