package domain

import "time"

// UpiAccount is one receiving account in the rotation pool. The ID is the
// payment address itself (e.g. "dexar@slc"). Range bounds and caps are
// optional; nil means unbounded/uncapped.
type UpiAccount struct {
	ID          string
	DisplayName string
	MinAmount   *int64 // paise, inclusive
	MaxAmount   *int64 // paise, inclusive
	// Daily transaction cap: either a fixed value, or a range from which
	// today's cap is redrawn uniformly at each day rollover. Fixed wins
	// when both are set.
	DailyCapFixed *int
	DailyCapMin   *int
	DailyCapMax   *int
	IsMain        bool
}

// WithinRange reports whether the given paise amount falls inside the
// account's configured min/max bounds.
func (a *UpiAccount) WithinRange(paise int64) bool {
	if a.MinAmount != nil && paise < *a.MinAmount {
		return false
	}
	if a.MaxAmount != nil && paise > *a.MaxAmount {
		return false
	}
	return true
}

// DailyState tracks per-account usage for a single calendar day in the
// reference timezone. DateKey is "YYYY-MM-DD"; a stale DateKey means the
// record must be rolled forward before use.
type DailyState struct {
	AccountID          string
	DateKey            string
	TxnsUsedToday      int
	TodaysCap          *int // nil when uncapped
	CollectedToday     int64
	CollectedYesterday int64
	CollectedAllTime   int64
}

// AtCap reports whether today's transaction cap has been reached.
// An uncapped account is never at cap.
func (s *DailyState) AtCap() bool {
	return s.TodaysCap != nil && s.TxnsUsedToday >= *s.TodaysCap
}

// ForceOverride pins every selection to one account. The respect flags
// optionally re-enable the range/cap checks; with both false, admin intent
// overrides all rules.
type ForceOverride struct {
	AccountID          string
	RespectTxnCap      bool
	RespectAmountRange bool
	SetAt              time.Time
}
