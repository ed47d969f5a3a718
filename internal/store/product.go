package store

import (
	"sync"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
)

// ProductStore is a thread-safe in-memory store for catalog items.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string // item_id insertion order for listing
}

// NewProductStore creates an empty ProductStore.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]*domain.Product),
	}
}

// Create adds a product keyed by item ID, overwriting any prior product
// with the same ID.
func (s *ProductStore) Create(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ItemID]; !ok {
		s.order = append(s.order, p.ItemID)
	}
	s.products[p.ItemID] = p
}

// Get retrieves a product by item ID. It returns
// domain.ErrProductNotFound if the product does not exist.
func (s *ProductStore) Get(itemID string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[itemID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// List returns all products in insertion order.
func (s *ProductStore) List() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id])
	}
	return out
}
