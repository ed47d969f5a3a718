package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrSessionNotFound     = errors.New("session_not_found")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrAccountNotFound     = errors.New("account_not_found")
	ErrAccountExists       = errors.New("account_already_exists")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrNoAccountConfigured = errors.New("no_account_configured")
	ErrPriceNotSet         = errors.New("price_not_set")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
