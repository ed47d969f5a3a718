package service

import (
	"regexp"
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/engine"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

var upiIDRegex = regexp.MustCompile(`^[\w.\-]{2,}@[A-Za-z]{2,}$`)

// AccountRequest represents the input for adding or editing a UPI account.
type AccountRequest struct {
	ID          string
	DisplayName string
	MinAmount   *float64 // rupees
	MaxAmount   *float64 // rupees
	CapFixed    *int
	CapMin      *int
	CapMax      *int
	IsMain      bool
}

// AccountSettings is the settings snapshot for one account, state rolled
// to today.
type AccountSettings struct {
	Account domain.UpiAccount
	State   domain.DailyState
	Forced  bool
}

// Settings is the full administrative snapshot.
type Settings struct {
	Accounts []AccountSettings
	Force    *domain.ForceOverride
}

// AdminService owns administrative configuration of the account pool and
// the force override. The settlement path never mutates the pool.
type AdminService struct {
	accounts *store.AccountStore
	selector *engine.AccountSelector
	now      func() time.Time
}

// NewAdminService creates an AdminService with the given dependencies.
func NewAdminService(accounts *store.AccountStore, selector *engine.AccountSelector) *AdminService {
	return &AdminService{
		accounts: accounts,
		selector: selector,
		now:      time.Now,
	}
}

// buildAccount validates a request and converts it to a domain account.
func buildAccount(req AccountRequest) (domain.UpiAccount, error) {
	if !upiIDRegex.MatchString(req.ID) {
		return domain.UpiAccount{}, &domain.ValidationError{Message: "id must be a UPI address like name@bank"}
	}

	a := domain.UpiAccount{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		IsMain:      req.IsMain,
	}

	if req.MinAmount != nil {
		p, err := domain.RupeesToPaise(*req.MinAmount)
		if err != nil || p < 0 {
			return domain.UpiAccount{}, &domain.ValidationError{Message: "min_amount must be a non-negative amount with at most 2 decimals"}
		}
		a.MinAmount = &p
	}
	if req.MaxAmount != nil {
		p, err := domain.RupeesToPaise(*req.MaxAmount)
		if err != nil || p < 0 {
			return domain.UpiAccount{}, &domain.ValidationError{Message: "max_amount must be a non-negative amount with at most 2 decimals"}
		}
		a.MaxAmount = &p
	}
	if a.MinAmount != nil && a.MaxAmount != nil && *a.MaxAmount < *a.MinAmount {
		a.MinAmount, a.MaxAmount = a.MaxAmount, a.MinAmount
	}

	if req.CapFixed != nil {
		if *req.CapFixed < 0 {
			return domain.UpiAccount{}, &domain.ValidationError{Message: "daily cap must be non-negative"}
		}
		a.DailyCapFixed = req.CapFixed
	} else if req.CapMin != nil || req.CapMax != nil {
		if req.CapMin == nil || req.CapMax == nil {
			return domain.UpiAccount{}, &domain.ValidationError{Message: "cap range requires both cap_min and cap_max"}
		}
		lo, hi := *req.CapMin, *req.CapMax
		if hi < lo {
			lo, hi = hi, lo
		}
		if lo < 0 {
			return domain.UpiAccount{}, &domain.ValidationError{Message: "daily cap range must be non-negative"}
		}
		a.DailyCapMin, a.DailyCapMax = &lo, &hi
	}

	return a, nil
}

// AddAccount validates and appends a new account to the pool.
func (s *AdminService) AddAccount(req AccountRequest) (domain.UpiAccount, error) {
	a, err := buildAccount(req)
	if err != nil {
		return domain.UpiAccount{}, err
	}
	if err := s.accounts.Add(a); err != nil {
		return domain.UpiAccount{}, err
	}
	// Read back: Add may have promoted the account to main.
	return s.accounts.Get(a.ID)
}

// UpdateAccount validates and replaces the account with the same ID.
func (s *AdminService) UpdateAccount(req AccountRequest) (domain.UpiAccount, error) {
	a, err := buildAccount(req)
	if err != nil {
		return domain.UpiAccount{}, err
	}
	if err := s.accounts.Update(a); err != nil {
		return domain.UpiAccount{}, err
	}
	return s.accounts.Get(a.ID)
}

// DeleteAccount removes an account from the pool.
func (s *AdminService) DeleteAccount(id string) error {
	return s.accounts.Delete(id)
}

// SetMain marks the given account as the pool's main account.
func (s *AdminService) SetMain(id string) error {
	return s.accounts.SetMain(id)
}

// SetForce pins all selections to the given account, with optional
// respect of its transaction cap and amount range.
func (s *AdminService) SetForce(accountID string, respectTxnCap, respectAmountRange bool) error {
	if _, err := s.accounts.Get(accountID); err != nil {
		return err
	}
	s.accounts.SetForce(&domain.ForceOverride{
		AccountID:          accountID,
		RespectTxnCap:      respectTxnCap,
		RespectAmountRange: respectAmountRange,
		SetAt:              s.now(),
	})
	return nil
}

// ClearForce removes the force override.
func (s *AdminService) ClearForce() {
	s.accounts.SetForce(nil)
}

// ResetToday zeroes today's transaction counts and collected amounts for
// every account.
func (s *AdminService) ResetToday() {
	s.selector.ResetToday()
}

// GetSettings returns the administrative snapshot of the pool: every
// account with its daily state rolled to today, plus the force override.
func (s *AdminService) GetSettings() Settings {
	force := s.accounts.Force()

	var accounts []AccountSettings
	for _, a := range s.accounts.Pool() {
		accounts = append(accounts, AccountSettings{
			Account: a,
			State:   s.selector.StateForToday(a),
			Forced:  force != nil && force.AccountID == a.ID,
		})
	}
	return Settings{Accounts: accounts, Force: force}
}
