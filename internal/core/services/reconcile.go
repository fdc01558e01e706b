package services

import (
	"context"
	"fmt"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"
	"brew-and-board/pkg/logger"

	"github.com/shopspring/decimal"
)

// reconcileTolerance absorbs historical floating rounding drift, not
// algorithmic divergence.
var reconcileTolerance = decimal.NewFromFloat(0.02)

// ReconciliationChecker re-runs the pricing engine against a persisted
// order's original inputs and compares totals. A failing check signals a
// stale price change, a tampered record, or a formula regression; it is
// surfaced, never silently corrected.
type ReconciliationChecker struct {
	engine ports.PricingServiceInterface
	store  ports.OrderStoreInterface
	logger *logger.Logger
}

func NewReconciliationChecker(engine ports.PricingServiceInterface, store ports.OrderStoreInterface, log *logger.Logger) *ReconciliationChecker {
	return &ReconciliationChecker{engine: engine, store: store, logger: log}
}

func (c *ReconciliationChecker) Reconcile(ctx context.Context, orderID int) (domain.ReconciliationResult, error) {
	order, err := c.store.GetOrder(ctx, orderID)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("get order %d: %w", orderID, err)
	}
	if order == nil {
		return domain.ReconciliationResult{}, domain.ErrOrderNotFound
	}

	pricing, err := c.engine.ValidateAndPrice(ctx, order.VendorID, order.Items, order.DistanceMiles, order.GratuityPercent)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("reprice order %d: %w", orderID, err)
	}

	diff := pricing.Total.Sub(order.StoredTotal)
	result := domain.ReconciliationResult{
		OrderID:         orderID,
		Valid:           diff.Abs().LessThan(reconcileTolerance),
		CalculatedTotal: pricing.Total,
		StoredTotal:     order.StoredTotal,
		Difference:      diff,
	}

	if !result.Valid {
		c.logger.Warn("", "reconciliation_mismatch", "Stored total diverges from recomputed total", map[string]interface{}{
			"order_id": orderID,
			"stored":   result.StoredTotal.StringFixed(2),
			"computed": result.CalculatedTotal.StringFixed(2),
		})
	}
	return result, nil
}
