package handler

import (
	"net/http"

	"github.com/Dev-Redad/cosmo-v1/internal/service"
)

// AccessHandler handles third-party join-request events for gated
// resources.
type AccessHandler struct {
	accessSvc *service.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(accessSvc *service.AccessService) *AccessHandler {
	return &AccessHandler{accessSvc: accessSvc}
}

// joinRequest is the JSON request body for POST /join-requests.
type joinRequest struct {
	BuyerID    string `json:"buyer_id"`
	ResourceID string `json:"resource_id"`
}

// HandleJoinRequest handles POST /join-requests.
func (h *AccessHandler) HandleJoinRequest(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.BuyerID == "" || req.ResourceID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "buyer_id and resource_id are required")
		return
	}

	approved := h.accessSvc.HandleJoinRequest(req.BuyerID, req.ResourceID)
	WriteJSON(w, http.StatusOK, map[string]bool{"approved": approved})
}
