package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PersistedOrder is the read contract for reconciliation: the original
// pricing inputs plus the total that was stored when the order was placed.
// GratuityPercent is the rate the customer actually selected, persisted
// explicitly so reconciliation never has to back-derive it.
type PersistedOrder struct {
	ID              int                `json:"id"`
	CreatedAt       time.Time          `json:"created_at"`
	VendorID        int                `json:"vendor_id"`
	Items           []OrderItemRequest `json:"items"`
	DistanceMiles   float64            `json:"distance_miles"`
	GratuityPercent float64            `json:"gratuity_percent"`
	StoredTotal     decimal.Decimal    `json:"stored_total"`
}

// ReconciliationResult compares a stored total against a fresh
// recomputation. Difference is signed (calculated minus stored); Valid
// tolerates up to 2 cents of historical rounding drift.
type ReconciliationResult struct {
	OrderID         int             `json:"order_id"`
	Valid           bool            `json:"valid"`
	CalculatedTotal decimal.Decimal `json:"calculated_total"`
	StoredTotal     decimal.Decimal `json:"stored_total"`
	Difference      decimal.Decimal `json:"difference"`
}
