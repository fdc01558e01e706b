package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is the client-submitted line item. Nothing in it is
// trusted: catalog references are re-priced from the menu, and the Price
// field is honored only for ad-hoc items that carry no catalog reference.
type OrderItemRequest struct {
	MenuItemID *int             `json:"menu_item_id"` // nullable
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price"` // nullable, ad-hoc items only
	Notes      string           `json:"notes,omitempty"`
}

// ValidatedOrderItem is an OrderItemRequest after the pricing engine has
// resolved its authoritative price. Only the pricing engine creates these.
type ValidatedOrderItem struct {
	OrderItemRequest
	VerifiedPrice decimal.Decimal `json:"verified_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// OrderPricing is the authoritative price breakdown for a cart. A non-empty
// Errors list means the pricing must never be charged or bound to a
// checkout credential.
type OrderPricing struct {
	Items       []ValidatedOrderItem `json:"items"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	SalesTax    decimal.Decimal      `json:"sales_tax"`
	ServiceFee  decimal.Decimal      `json:"service_fee"`
	DeliveryFee decimal.Decimal      `json:"delivery_fee"`
	Gratuity    decimal.Decimal      `json:"gratuity"`
	Total       decimal.Decimal      `json:"total"`
	Errors      []string             `json:"errors,omitempty"`
}

// GratuitySplit apportions a tip between the delivery worker and the
// platform. Both amounts are minor units (cents) and always sum to the
// input amount exactly.
type GratuitySplit struct {
	DriverTip   int64 `json:"driver_tip"`
	InternalTip int64 `json:"internal_tip"`
}

// RateLimitDecision is the only signal the rate limiter emits; it never
// returns an error. RetryAfter is meaningful only when Allowed is false.
type RateLimitDecision struct {
	Allowed    bool          `json:"allowed"`
	RetryAfter time.Duration `json:"-"`
	Remaining  int           `json:"remaining"`
}
