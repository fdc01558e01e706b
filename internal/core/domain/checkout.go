package domain

import (
	"errors"
	"strings"
	"time"
)

// CheckoutCredential authorizes exactly one downstream payment capture for
// the total its pricing encodes. It expires 30 minutes after issuance.
type CheckoutCredential struct {
	Token     string       `json:"token"`
	Pricing   OrderPricing `json:"pricing"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ValidationFailedError carries the full list of pricing problems so the
// client can show them all at once instead of one at a time.
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return "checkout validation failed: " + strings.Join(e.Errors, "; ")
}

var (
	ErrCredentialExpired = errors.New("checkout credential expired")
	ErrCredentialUnknown = errors.New("checkout credential unknown")
	ErrOrderNotFound     = errors.New("order not found")
)
