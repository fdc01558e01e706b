package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutIssuedMessage struct {
	TokenPrefix string          `json:"token_prefix"`
	VendorID    int             `json:"vendor_id"`
	Total       decimal.Decimal `json:"total"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

type ReconciliationAlertMessage struct {
	OrderID         int             `json:"order_id"`
	StoredTotal     decimal.Decimal `json:"stored_total"`
	CalculatedTotal decimal.Decimal `json:"calculated_total"`
	Difference      decimal.Decimal `json:"difference"`
	CheckedAt       time.Time       `json:"checked_at"`
}
