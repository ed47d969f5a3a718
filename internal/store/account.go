package store

import (
	"sync"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
)

// AccountStore holds the UPI account pool, per-account daily state, and
// the process-wide force override. The pool is a single configuration
// document: every read returns a fresh copy and every decision re-reads
// it, so admin edits take effect on the next selection without any cache
// invalidation.
type AccountStore struct {
	mu    sync.RWMutex
	pool  []domain.UpiAccount
	state map[string]*domain.DailyState // account_id → daily state
	force *domain.ForceOverride
}

// NewAccountStore creates an empty AccountStore.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		state: make(map[string]*domain.DailyState),
	}
}

// normalizeMain enforces the single-main invariant on a pool: if several
// accounts are marked main only the first survives; if none is marked and
// the pool is non-empty, the first becomes main.
func normalizeMain(pool []domain.UpiAccount) {
	mainSeen := false
	for i := range pool {
		if pool[i].IsMain {
			if mainSeen {
				pool[i].IsMain = false
			}
			mainSeen = true
		}
	}
	if !mainSeen && len(pool) > 0 {
		pool[0].IsMain = true
	}
}

// Pool returns a copy of the configured account pool.
func (s *AccountStore) Pool() []domain.UpiAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool := make([]domain.UpiAccount, len(s.pool))
	copy(pool, s.pool)
	return pool
}

// SetPool replaces the whole pool, enforcing the single-main invariant.
func (s *AccountStore) SetPool(pool []domain.UpiAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalizeMain(pool)
	s.pool = pool
}

// Get returns a copy of the account with the given ID, or
// domain.ErrAccountNotFound.
func (s *AccountStore) Get(id string) (domain.UpiAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.pool {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.UpiAccount{}, domain.ErrAccountNotFound
}

// Add appends an account to the pool. It returns domain.ErrAccountExists
// if an account with the same ID is already configured.
func (s *AccountStore) Add(a domain.UpiAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.pool {
		if existing.ID == a.ID {
			return domain.ErrAccountExists
		}
	}
	s.pool = append(s.pool, a)
	normalizeMain(s.pool)
	return nil
}

// Update replaces the account with the same ID.
func (s *AccountStore) Update(a domain.UpiAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pool {
		if s.pool[i].ID == a.ID {
			s.pool[i] = a
			normalizeMain(s.pool)
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// Delete removes the account with the given ID and its daily state. A
// force override pointing at the removed account is cleared.
func (s *AccountStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.pool {
		if s.pool[i].ID == id {
			s.pool = append(s.pool[:i], s.pool[i+1:]...)
			normalizeMain(s.pool)
			delete(s.state, id)
			if s.force != nil && s.force.AccountID == id {
				s.force = nil
			}
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// SetMain marks the account with the given ID as main and unmarks the rest.
func (s *AccountStore) SetMain(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.pool {
		s.pool[i].IsMain = s.pool[i].ID == id
		if s.pool[i].ID == id {
			found = true
		}
	}
	if !found {
		normalizeMain(s.pool)
		return domain.ErrAccountNotFound
	}
	return nil
}

// Main returns a copy of the pool's main account. The single-main
// invariant guarantees one exists whenever the pool is non-empty.
func (s *AccountStore) Main() (domain.UpiAccount, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.pool {
		if a.IsMain {
			return a, true
		}
	}
	if len(s.pool) > 0 {
		return s.pool[0], true
	}
	return domain.UpiAccount{}, false
}

// State returns a copy of the daily state for the account, or false if
// no state has been recorded yet.
func (s *AccountStore) State(accountID string) (domain.DailyState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.state[accountID]
	if !ok {
		return domain.DailyState{}, false
	}
	return *st, true
}

// PutState stores the daily state for an account, replacing any prior
// record. Writing the same DateKey twice is idempotent by construction:
// concurrent rollovers for the same day produce the same record.
func (s *AccountStore) PutState(st domain.DailyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[st.AccountID] = &st
}

// MutateState applies fn to the account's daily state under the write
// lock. It is a no-op when no state record exists; callers roll the state
// forward first.
func (s *AccountStore) MutateState(accountID string, fn func(*domain.DailyState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.state[accountID]; ok {
		fn(st)
	}
}

// Force returns the active force override, or nil.
func (s *AccountStore) Force() *domain.ForceOverride {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.force == nil {
		return nil
	}
	f := *s.force
	return &f
}

// SetForce installs a force override. A nil value clears it.
func (s *AccountStore) SetForce(f *domain.ForceOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f == nil {
		s.force = nil
		return
	}
	copied := *f
	s.force = &copied
}
