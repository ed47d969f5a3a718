package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/service"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	productSvc *service.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productSvc *service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// fileRefRequest is one stored file reference in a product request.
type fileRefRequest struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// createProductRequest is the JSON request body for POST /products.
// Either price (fixed) or min_price/max_price (range) must be given.
type createProductRequest struct {
	Price      *float64         `json:"price"`
	MinPrice   *float64         `json:"min_price"`
	MaxPrice   *float64         `json:"max_price"`
	ResourceID string           `json:"resource_id"`
	Files      []fileRefRequest `json:"files"`
}

// productResponse is the JSON shape of one product.
type productResponse struct {
	ItemID     string           `json:"item_id"`
	MinPrice   float64          `json:"min_price"`
	MaxPrice   float64          `json:"max_price"`
	Free       bool             `json:"free"`
	ResourceID string           `json:"resource_id,omitempty"`
	Files      []fileRefRequest `json:"files,omitempty"`
}

func buildProductResponse(p *domain.Product) productResponse {
	resp := productResponse{
		ItemID:     p.ItemID,
		MinPrice:   domain.PaiseToRupees(p.MinPrice),
		MaxPrice:   domain.PaiseToRupees(p.MaxPrice),
		Free:       p.IsFree(),
		ResourceID: p.ResourceID,
	}
	for _, f := range p.Files {
		resp.Files = append(resp.Files, fileRefRequest{ChannelID: f.ChannelID, MessageID: f.MessageID})
	}
	return resp
}

// Create handles POST /products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var minPrice, maxPrice float64
	switch {
	case req.Price != nil && (req.MinPrice != nil || req.MaxPrice != nil):
		WriteError(w, http.StatusBadRequest, "validation_error", "give either price or min_price/max_price, not both")
		return
	case req.Price != nil:
		minPrice, maxPrice = *req.Price, *req.Price
	case req.MinPrice != nil && req.MaxPrice != nil:
		minPrice, maxPrice = *req.MinPrice, *req.MaxPrice
	default:
		WriteError(w, http.StatusBadRequest, "validation_error", "price or min_price/max_price is required")
		return
	}

	files := make([]domain.FileRef, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, domain.FileRef{ChannelID: f.ChannelID, MessageID: f.MessageID})
	}

	p, err := h.productSvc.Create(service.CreateProductRequest{
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		ResourceID: req.ResourceID,
		Files:      files,
	})
	if err != nil {
		mapProductError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildProductResponse(p))
}

// Get handles GET /products/{item_id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.productSvc.Get(chi.URLParam(r, "item_id"))
	if err != nil {
		mapProductError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildProductResponse(p))
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.productSvc.List()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, buildProductResponse(p))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"products": out})
}

// mapProductError maps service errors to HTTP responses.
func mapProductError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		WriteError(w, http.StatusBadRequest, "validation_error", valErr.Message)
	case errors.Is(err, domain.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrProductNotFound.Error(), "Item not found")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
