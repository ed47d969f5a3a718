package domain

import "time"

// OrderStatus distinguishes paid purchases from free claims.
type OrderStatus string

const (
	OrderStatusPaid OrderStatus = "paid"
	OrderStatusFree OrderStatus = "free"
)

// Order is the post-sale access record consulted when a buyer requests to
// join a gated resource. Keyed by (BuyerID, ResourceID); never deleted by
// the settlement core.
type Order struct {
	BuyerID    string
	ResourceID string
	ItemID     string
	PaidAt     time.Time
	Status     OrderStatus
}
