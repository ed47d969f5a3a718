package domain

import "time"

// SessionStatus represents the lifecycle state of an order session.
type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusPaid    SessionStatus = "paid"
	SessionStatusExpired SessionStatus = "expired"
)

// OrderSession represents one pending purchase awaiting payment. It is a
// single-shot, single-winner resource: created by a purchase request,
// consumed exactly once by settlement or by expiry. Exactly one live
// session exists per amount key, enforced through the amount ledger.
type OrderSession struct {
	Key               string
	BuyerID           string
	DeliveryTarget    string
	ItemID            string
	AmountPaise       int64
	AmountKey         string
	AccountID         string
	Status            SessionStatus
	CreatedAt         time.Time
	HardExpireAt      time.Time
	InstructionHandle string // handle of the shown payment-instruction message, if any
}

// WindowContains reports whether ts falls inside the session's validity
// window. Both ends are inclusive: a notification stamped exactly at
// HardExpireAt still matches.
func (s *OrderSession) WindowContains(ts time.Time) bool {
	return !ts.Before(s.CreatedAt) && !ts.After(s.HardExpireAt)
}
