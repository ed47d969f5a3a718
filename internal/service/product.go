package service

import (
	"github.com/google/uuid"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// CreateProductRequest represents the input for adding a catalog item.
// Price is in rupees; a fixed price sets MinPrice == MaxPrice.
type CreateProductRequest struct {
	MinPrice   float64
	MaxPrice   float64
	ResourceID string
	Files      []domain.FileRef
}

// ProductService manages the catalog.
type ProductService struct {
	products *store.ProductStore
}

// NewProductService creates a ProductService.
func NewProductService(products *store.ProductStore) *ProductService {
	return &ProductService{products: products}
}

// Create validates the request and adds a product with a generated item ID.
func (s *ProductService) Create(req CreateProductRequest) (*domain.Product, error) {
	minP, err := domain.RupeesToPaise(req.MinPrice)
	if err != nil || minP < 0 {
		return nil, &domain.ValidationError{Message: "min_price must be a non-negative amount with at most 2 decimals"}
	}
	maxP, err := domain.RupeesToPaise(req.MaxPrice)
	if err != nil || maxP < 0 {
		return nil, &domain.ValidationError{Message: "max_price must be a non-negative amount with at most 2 decimals"}
	}
	if maxP < minP {
		return nil, &domain.ValidationError{Message: "max_price must be >= min_price"}
	}
	if req.ResourceID == "" && len(req.Files) == 0 {
		return nil, &domain.ValidationError{Message: "product needs a resource_id or at least one file"}
	}
	if req.ResourceID != "" && len(req.Files) > 0 {
		return nil, &domain.ValidationError{Message: "product cannot have both a resource_id and files"}
	}

	p := &domain.Product{
		ItemID:     "item_" + uuid.NewString(),
		MinPrice:   minP,
		MaxPrice:   maxP,
		ResourceID: req.ResourceID,
		Files:      req.Files,
	}
	s.products.Create(p)
	return p, nil
}

// Get retrieves a product by item ID.
func (s *ProductService) Get(itemID string) (*domain.Product, error) {
	return s.products.Get(itemID)
}

// List returns all products.
func (s *ProductService) List() []*domain.Product {
	return s.products.List()
}
