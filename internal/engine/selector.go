package engine

import (
	"time"

	"github.com/Dev-Redad/cosmo-v1/internal/domain"
	"github.com/Dev-Redad/cosmo-v1/internal/metrics"
	"github.com/Dev-Redad/cosmo-v1/internal/store"
)

// AccountSelector chooses the receiving account for each payment. The
// pool and the force override are read fresh from the store on every
// call, so admin edits apply to the next selection without restarts.
type AccountSelector struct {
	accounts *store.AccountStore
	rnd      *Rand
	refTZ    *time.Location
	now      func() time.Time
}

// NewAccountSelector creates an AccountSelector. refTZ is the single
// authoritative reference timezone for day boundaries; it must be a
// fixed zone, never ambient system time.
func NewAccountSelector(accounts *store.AccountStore, rnd *Rand, refTZ *time.Location) *AccountSelector {
	return &AccountSelector{
		accounts: accounts,
		rnd:      rnd,
		refTZ:    refTZ,
		now:      time.Now,
	}
}

// dateKey returns "now" as a calendar day in the reference timezone.
func (s *AccountSelector) dateKey() string {
	return s.now().In(s.refTZ).Format("2006-01-02")
}

// rollState returns the account's daily state rolled forward to today.
// On rollover, yesterday's collection becomes Yesterday, today's counters
// reset, and the daily cap is redrawn: the fixed value when configured, a
// uniform draw from the cap range (swapped if inverted) when randomized,
// nil when uncapped. Rolling an already-current record changes nothing,
// so concurrent rollovers for the same day are idempotent.
func (s *AccountSelector) rollState(a domain.UpiAccount) domain.DailyState {
	today := s.dateKey()

	st, ok := s.accounts.State(a.ID)
	if ok && st.DateKey == today {
		return st
	}

	rolled := domain.DailyState{
		AccountID:        a.ID,
		DateKey:          today,
		TodaysCap:        s.drawCap(a),
		CollectedAllTime: st.CollectedAllTime,
	}
	if ok {
		rolled.CollectedYesterday = st.CollectedToday
	}
	s.accounts.PutState(rolled)
	return rolled
}

// drawCap computes today's transaction cap for an account.
func (s *AccountSelector) drawCap(a domain.UpiAccount) *int {
	if a.DailyCapFixed != nil {
		cap := *a.DailyCapFixed
		return &cap
	}
	if a.DailyCapMin != nil && a.DailyCapMax != nil {
		cap := s.rnd.IntRange(*a.DailyCapMin, *a.DailyCapMax)
		return &cap
	}
	return nil
}

// SelectAccount returns the account ID that should receive the given
// paise amount. Selection order: the force override (subject to its
// respect flags), then the least-used fully eligible account with a
// uniform random tie-break, then the fallback chain. A non-compliant
// assignment is always preferred over refusing the sale.
// It returns domain.ErrNoAccountConfigured only when the pool is empty;
// the caller falls back to the hardcoded default receiving account.
func (s *AccountSelector) SelectAccount(amountPaise int64) (string, error) {
	if forced, ok := s.forcedChoice(amountPaise); ok {
		metrics.SelectionsTotal.WithLabelValues("forced").Inc()
		return forced, nil
	}

	pool := s.accounts.Pool()
	if len(pool) == 0 {
		return "", domain.ErrNoAccountConfigured
	}

	type candidate struct {
		account domain.UpiAccount
		used    int
	}
	var rangeEligible []domain.UpiAccount
	var fullyEligible []candidate

	for _, a := range pool {
		st := s.rollState(a)
		if !a.WithinRange(amountPaise) {
			continue
		}
		rangeEligible = append(rangeEligible, a)
		if !st.AtCap() {
			fullyEligible = append(fullyEligible, candidate{account: a, used: st.TxnsUsedToday})
		}
	}

	if len(fullyEligible) > 0 {
		minUsed := fullyEligible[0].used
		for _, c := range fullyEligible[1:] {
			if c.used < minUsed {
				minUsed = c.used
			}
		}
		var leastUsed []candidate
		for _, c := range fullyEligible {
			if c.used == minUsed {
				leastUsed = append(leastUsed, c)
			}
		}
		metrics.SelectionsTotal.WithLabelValues("least_used").Inc()
		return leastUsed[s.rnd.Intn(len(leastUsed))].account.ID, nil
	}

	main, _ := s.accounts.Main()

	// Every in-range account is capped: prefer main if it is in range,
	// else any in-range account.
	if len(rangeEligible) > 0 {
		metrics.SelectionsTotal.WithLabelValues("fallback").Inc()
		for _, a := range rangeEligible {
			if a.ID == main.ID {
				return main.ID, nil
			}
		}
		return rangeEligible[0].ID, nil
	}

	// Nothing is in range. Main takes the payment anyway.
	metrics.SelectionsTotal.WithLabelValues("fallback").Inc()
	return main.ID, nil
}

// forcedChoice resolves the force override. It returns ("", false) when
// no override is set, the forced account no longer exists, or a respect
// flag vetoes this amount.
func (s *AccountSelector) forcedChoice(amountPaise int64) (string, bool) {
	f := s.accounts.Force()
	if f == nil {
		return "", false
	}
	a, err := s.accounts.Get(f.AccountID)
	if err != nil {
		return "", false
	}

	if f.RespectAmountRange && !a.WithinRange(amountPaise) {
		return "", false
	}
	if f.RespectTxnCap {
		st := s.rollState(a)
		if st.AtCap() {
			return "", false
		}
	}
	return a.ID, true
}

// RecordUsage rolls the account's state to today and increments its
// transaction count. Call exactly once per settled order.
func (s *AccountSelector) RecordUsage(accountID string) {
	a, err := s.accounts.Get(accountID)
	if err != nil {
		return
	}
	s.rollState(a)
	s.accounts.MutateState(accountID, func(st *domain.DailyState) {
		st.TxnsUsedToday++
	})
}

// RecordAmount rolls the account's state to today and adds the settled
// paise amount to today's and the all-time totals. Call exactly once per
// settled order.
func (s *AccountSelector) RecordAmount(accountID string, amountPaise int64) {
	a, err := s.accounts.Get(accountID)
	if err != nil {
		return
	}
	s.rollState(a)
	s.accounts.MutateState(accountID, func(st *domain.DailyState) {
		st.CollectedToday += amountPaise
		st.CollectedAllTime += amountPaise
	})
}

// ResetToday zeroes today's transaction count and collected amount for
// every account in the pool (administrative reset).
func (s *AccountSelector) ResetToday() {
	for _, a := range s.accounts.Pool() {
		s.rollState(a)
		s.accounts.MutateState(a.ID, func(st *domain.DailyState) {
			st.TxnsUsedToday = 0
			st.CollectedToday = 0
		})
	}
}

// StateForToday returns the account's daily state rolled forward to
// today, for settings snapshots.
func (s *AccountSelector) StateForToday(a domain.UpiAccount) domain.DailyState {
	return s.rollState(a)
}
