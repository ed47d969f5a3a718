package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/service"
)

// AccountHandler handles HTTP requests for UPI account administration.
type AccountHandler struct {
	adminSvc *service.AdminService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(adminSvc *service.AdminService) *AccountHandler {
	return &AccountHandler{adminSvc: adminSvc}
}

// accountRequest is the JSON request body for account create/update.
type accountRequest struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	MinAmount   *float64 `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	CapFixed    *int     `json:"cap_fixed"`
	CapMin      *int     `json:"cap_min"`
	CapMax      *int     `json:"cap_max"`
	IsMain      bool     `json:"is_main"`
}

// forceRequest is the JSON request body for POST /upi-accounts/force.
type forceRequest struct {
	AccountID          string `json:"account_id"`
	RespectTxnCap      bool   `json:"respect_txn_cap"`
	RespectAmountRange bool   `json:"respect_amount_range"`
}

// accountResponse is the JSON shape of one configured account.
type accountResponse struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name,omitempty"`
	MinAmount   *float64 `json:"min_amount"`
	MaxAmount   *float64 `json:"max_amount"`
	CapFixed    *int     `json:"cap_fixed"`
	CapMin      *int     `json:"cap_min"`
	CapMax      *int     `json:"cap_max"`
	IsMain      bool     `json:"is_main"`
}

// accountStateResponse is one account with today's usage state.
type accountStateResponse struct {
	accountResponse
	Forced             bool    `json:"forced"`
	DateKey            string  `json:"date_key"`
	TxnsUsedToday      int     `json:"txns_used_today"`
	TodaysCap          *int    `json:"todays_cap"`
	CollectedToday     float64 `json:"collected_today"`
	CollectedYesterday float64 `json:"collected_yesterday"`
	CollectedAllTime   float64 `json:"collected_all_time"`
}

// settingsResponse is the JSON response for GET /upi-accounts.
type settingsResponse struct {
	Accounts []accountStateResponse `json:"accounts"`
	Force    *forceResponse         `json:"force"`
}

// forceResponse describes the active force override.
type forceResponse struct {
	AccountID          string `json:"account_id"`
	RespectTxnCap      bool   `json:"respect_txn_cap"`
	RespectAmountRange bool   `json:"respect_amount_range"`
	SetAt              string `json:"set_at"`
}

func buildAccountResponse(a domain.UpiAccount) accountResponse {
	resp := accountResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		CapFixed:    a.DailyCapFixed,
		CapMin:      a.DailyCapMin,
		CapMax:      a.DailyCapMax,
		IsMain:      a.IsMain,
	}
	if a.MinAmount != nil {
		v := domain.PaiseToRupees(*a.MinAmount)
		resp.MinAmount = &v
	}
	if a.MaxAmount != nil {
		v := domain.PaiseToRupees(*a.MaxAmount)
		resp.MaxAmount = &v
	}
	return resp
}

// Create handles POST /upi-accounts.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := h.adminSvc.AddAccount(accountRequestToService(req))
	if err != nil {
		mapAccountError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, buildAccountResponse(a))
}

// Update handles PUT /upi-accounts/{account_id}.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.ID = chi.URLParam(r, "account_id")

	a, err := h.adminSvc.UpdateAccount(accountRequestToService(req))
	if err != nil {
		mapAccountError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildAccountResponse(a))
}

// Delete handles DELETE /upi-accounts/{account_id}.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.adminSvc.DeleteAccount(chi.URLParam(r, "account_id")); err != nil {
		mapAccountError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SetMain handles POST /upi-accounts/{account_id}/main.
func (h *AccountHandler) SetMain(w http.ResponseWriter, r *http.Request) {
	if err := h.adminSvc.SetMain(chi.URLParam(r, "account_id")); err != nil {
		mapAccountError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetForce handles POST /upi-accounts/force.
func (h *AccountHandler) SetForce(w http.ResponseWriter, r *http.Request) {
	var req forceRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := h.adminSvc.SetForce(req.AccountID, req.RespectTxnCap, req.RespectAmountRange); err != nil {
		mapAccountError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "forced"})
}

// ClearForce handles DELETE /upi-accounts/force.
func (h *AccountHandler) ClearForce(w http.ResponseWriter, r *http.Request) {
	h.adminSvc.ClearForce()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ResetToday handles POST /upi-accounts/reset-today.
func (h *AccountHandler) ResetToday(w http.ResponseWriter, r *http.Request) {
	h.adminSvc.ResetToday()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// GetSettings handles GET /upi-accounts.
func (h *AccountHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.adminSvc.GetSettings()

	resp := settingsResponse{Accounts: make([]accountStateResponse, 0, len(settings.Accounts))}
	for _, as := range settings.Accounts {
		resp.Accounts = append(resp.Accounts, accountStateResponse{
			accountResponse:    buildAccountResponse(as.Account),
			Forced:             as.Forced,
			DateKey:            as.State.DateKey,
			TxnsUsedToday:      as.State.TxnsUsedToday,
			TodaysCap:          as.State.TodaysCap,
			CollectedToday:     domain.PaiseToRupees(as.State.CollectedToday),
			CollectedYesterday: domain.PaiseToRupees(as.State.CollectedYesterday),
			CollectedAllTime:   domain.PaiseToRupees(as.State.CollectedAllTime),
		})
	}
	if settings.Force != nil {
		resp.Force = &forceResponse{
			AccountID:          settings.Force.AccountID,
			RespectTxnCap:      settings.Force.RespectTxnCap,
			RespectAmountRange: settings.Force.RespectAmountRange,
			SetAt:              settings.Force.SetAt.UTC().Format(time.RFC3339),
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

func accountRequestToService(req accountRequest) service.AccountRequest {
	return service.AccountRequest{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		MinAmount:   req.MinAmount,
		MaxAmount:   req.MaxAmount,
		CapFixed:    req.CapFixed,
		CapMin:      req.CapMin,
		CapMax:      req.CapMax,
		IsMain:      req.IsMain,
	}
}

// mapAccountError maps service errors to HTTP responses.
func mapAccountError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		WriteError(w, http.StatusBadRequest, "validation_error", valErr.Message)
	case errors.Is(err, domain.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, domain.ErrAccountNotFound.Error(), "Account not found")
	case errors.Is(err, domain.ErrAccountExists):
		WriteError(w, http.StatusConflict, domain.ErrAccountExists.Error(), "Account already configured")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
