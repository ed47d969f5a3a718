package domain

import "time"

// PaymentLogEntry is one parsed payment notification, recorded regardless
// of whether it matched a session. The log is the audit trail for manual
// reconciliation of payments that arrived for expired or foreign orders.
type PaymentLogEntry struct {
	AmountKey string
	Timestamp time.Time
	RawText   string
}
