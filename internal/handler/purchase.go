package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/service"
)

// PurchaseHandler handles HTTP requests for purchase endpoints.
type PurchaseHandler struct {
	purchaseSvc *service.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseSvc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseSvc: purchaseSvc}
}

// startPurchaseRequest is the JSON request body for POST /purchases.
type startPurchaseRequest struct {
	BuyerID        string `json:"buyer_id"`
	DeliveryTarget string `json:"delivery_target"`
	ItemID         string `json:"item_id"`
}

// instructionResponse is the payment instruction in purchase responses.
type instructionResponse struct {
	Amount     string `json:"amount"`
	AccountID  string `json:"account_id"`
	PayeeName  string `json:"payee_name"`
	UpiURI     string `json:"upi_uri"`
	QRImageURL string `json:"qr_image_url"`
	ExpiresAt  string `json:"expires_at"`
}

// purchaseResponse is the JSON response for POST /purchases.
type purchaseResponse struct {
	Free        bool                 `json:"free"`
	SessionKey  string               `json:"session_key,omitempty"`
	Instruction *instructionResponse `json:"instruction,omitempty"`
}

// sessionResponse is the JSON response for GET /purchases/{session_key}.
type sessionResponse struct {
	Key          string `json:"key"`
	BuyerID      string `json:"buyer_id"`
	ItemID       string `json:"item_id"`
	Amount       string `json:"amount"`
	AmountKey    string `json:"amount_key"`
	AccountID    string `json:"account_id"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	HardExpireAt string `json:"hard_expire_at"`
}

// StartPurchase handles POST /purchases.
func (h *PurchaseHandler) StartPurchase(w http.ResponseWriter, r *http.Request) {
	var req startPurchaseRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.purchaseSvc.StartPurchase(r.Context(), service.StartPurchaseRequest{
		BuyerID:        req.BuyerID,
		DeliveryTarget: req.DeliveryTarget,
		ItemID:         req.ItemID,
	})
	if err != nil {
		mapPurchaseError(w, err)
		return
	}

	resp := purchaseResponse{Free: result.Free, SessionKey: result.SessionKey}
	if result.Instruction != nil {
		resp.Instruction = &instructionResponse{
			Amount:     result.Instruction.DisplayAmount,
			AccountID:  result.Instruction.AccountID,
			PayeeName:  result.Instruction.PayeeName,
			UpiURI:     result.Instruction.UpiURI,
			QRImageURL: result.Instruction.QRImageURL,
			ExpiresAt:  result.Instruction.ExpiresAt.UTC().Format(time.RFC3339),
		}
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// GetSession handles GET /purchases/{session_key}.
func (h *PurchaseHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "session_key")

	sess, err := h.purchaseSvc.GetSession(key)
	if err != nil {
		mapPurchaseError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, sessionResponse{
		Key:          sess.Key,
		BuyerID:      sess.BuyerID,
		ItemID:       sess.ItemID,
		Amount:       domain.DisplayAmount(sess.AmountPaise),
		AmountKey:    sess.AmountKey,
		AccountID:    sess.AccountID,
		Status:       string(sess.Status),
		CreatedAt:    sess.CreatedAt.UTC().Format(time.RFC3339),
		HardExpireAt: sess.HardExpireAt.UTC().Format(time.RFC3339),
	})
}

// mapPurchaseError maps service errors to HTTP responses.
func mapPurchaseError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		WriteError(w, http.StatusBadRequest, "validation_error", valErr.Message)
	case errors.Is(err, domain.ErrProductNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrProductNotFound.Error(), "Item not found")
	case errors.Is(err, domain.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrSessionNotFound.Error(), "Session not found")
	case errors.Is(err, domain.ErrPriceNotSet):
		WriteError(w, http.StatusConflict, domain.ErrPriceNotSet.Error(), "Item has no usable price")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
