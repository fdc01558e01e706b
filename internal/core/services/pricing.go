package services

import (
	"context"
	"fmt"

	"brew-and-board/internal/core/domain"
	"brew-and-board/internal/core/ports"

	"github.com/shopspring/decimal"
)

// PricingConfig carries the region-specific rates and thresholds. Rates are
// fractions (0.0975 = 9.75%), amounts are currency values.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	ServiceFeeRate        decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	DeliveryBaseFee       decimal.Decimal
	DeliveryPerMileFee    decimal.Decimal
	DeliveryFeeCap        decimal.Decimal
	DefaultDistanceMiles  float64
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:               decimal.NewFromFloat(0.0975),
		ServiceFeeRate:        decimal.NewFromFloat(0.15),
		FreeDeliveryThreshold: decimal.NewFromFloat(150.00),
		DeliveryBaseFee:       decimal.NewFromFloat(5.99),
		DeliveryPerMileFee:    decimal.NewFromFloat(1.50),
		DeliveryFeeCap:        decimal.NewFromFloat(15.00),
		DefaultDistanceMiles:  5,
	}
}

// PricingEngine re-derives a cart's authoritative price from catalog data.
// Client-submitted prices are honored only for ad-hoc items with no catalog
// reference. Business problems are collected into OrderPricing.Errors; the
// returned error is reserved for catalog infrastructure failures.
type PricingEngine struct {
	catalog ports.CatalogLookupInterface
	cfg     PricingConfig
}

var _ ports.PricingServiceInterface = (*PricingEngine)(nil)

func NewPricingEngine(catalog ports.CatalogLookupInterface, cfg PricingConfig) *PricingEngine {
	return &PricingEngine{catalog: catalog, cfg: cfg}
}

func (e *PricingEngine) ValidateAndPrice(ctx context.Context, vendorID int, items []domain.OrderItemRequest, distanceMiles, gratuityPercent float64) (domain.OrderPricing, error) {
	pricing := domain.OrderPricing{
		Subtotal:    decimal.Zero,
		SalesTax:    decimal.Zero,
		ServiceFee:  decimal.Zero,
		DeliveryFee: decimal.Zero,
		Gratuity:    decimal.Zero,
		Total:       decimal.Zero,
	}

	vendor, err := e.catalog.GetVendor(ctx, vendorID)
	if err != nil {
		return domain.OrderPricing{}, fmt.Errorf("get vendor %d: %w", vendorID, err)
	}
	if vendor == nil {
		pricing.Errors = append(pricing.Errors, "vendor not found")
		return pricing, nil
	}
	if !vendor.Active {
		pricing.Errors = append(pricing.Errors, "vendor is not accepting orders")
		return pricing, nil
	}

	menuItems, err := e.catalog.GetMenuItems(ctx, vendorID)
	if err != nil {
		return domain.OrderPricing{}, fmt.Errorf("get menu items for vendor %d: %w", vendorID, err)
	}
	menu := make(map[int]domain.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		menu[mi.ID] = mi
	}

	subtotal := decimal.Zero
	for _, req := range items {
		if req.Quantity <= 0 {
			pricing.Errors = append(pricing.Errors, fmt.Sprintf("item %q has invalid quantity %d", req.Name, req.Quantity))
			continue
		}

		var verified decimal.Decimal
		if req.MenuItemID != nil {
			mi, ok := menu[*req.MenuItemID]
			if !ok {
				pricing.Errors = append(pricing.Errors, fmt.Sprintf("item %q not found", req.Name))
				continue
			}
			if !mi.Available {
				pricing.Errors = append(pricing.Errors, fmt.Sprintf("item %q is unavailable", req.Name))
				continue
			}
			verified = mi.Price
		} else {
			// Ad-hoc item: no catalog claim to spoof, so the asserted
			// price is taken as-is.
			if req.Price == nil {
				pricing.Errors = append(pricing.Errors, fmt.Sprintf("ad-hoc item %q has no price", req.Name))
				continue
			}
			if req.Price.IsNegative() {
				pricing.Errors = append(pricing.Errors, fmt.Sprintf("ad-hoc item %q has a negative price", req.Name))
				continue
			}
			verified = *req.Price
		}

		lineTotal := RoundMoney(verified.Mul(decimal.NewFromInt(int64(req.Quantity))))
		pricing.Items = append(pricing.Items, domain.ValidatedOrderItem{
			OrderItemRequest: req,
			VerifiedPrice:    verified,
			LineTotal:        lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	pricing.Subtotal = RoundMoney(subtotal)

	// The gratuity rate is client-selected, so a negative value would let the
	// caller discount the order through the tip line.
	if gratuityPercent < 0 {
		pricing.Errors = append(pricing.Errors, fmt.Sprintf("invalid gratuity percent %g", gratuityPercent))
		gratuityPercent = 0
	}

	if pricing.Subtotal.LessThan(vendor.MinimumOrder) {
		pricing.Errors = append(pricing.Errors, fmt.Sprintf(
			"minimum order of $%s not met (current: $%s)",
			vendor.MinimumOrder.StringFixed(2), pricing.Subtotal.StringFixed(2)))
	}

	pricing.ServiceFee = RoundMoney(pricing.Subtotal.Mul(e.cfg.ServiceFeeRate))
	pricing.SalesTax = RoundMoney(pricing.Subtotal.Mul(e.cfg.TaxRate))
	pricing.DeliveryFee = e.deliveryFee(pricing.Subtotal, distanceMiles)
	pricing.Gratuity = RoundMoney(pricing.Subtotal.Mul(decimal.NewFromFloat(gratuityPercent)).Div(decimal.NewFromInt(100)))

	pricing.Total = RoundMoney(pricing.Subtotal.
		Add(pricing.SalesTax).
		Add(pricing.ServiceFee).
		Add(pricing.DeliveryFee).
		Add(pricing.Gratuity))

	return pricing, nil
}

func (e *PricingEngine) deliveryFee(subtotal decimal.Decimal, distanceMiles float64) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(e.cfg.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	if distanceMiles <= 0 {
		distanceMiles = e.cfg.DefaultDistanceMiles
	}
	fee := e.cfg.DeliveryBaseFee.Add(e.cfg.DeliveryPerMileFee.Mul(decimal.NewFromFloat(distanceMiles)))
	if fee.GreaterThan(e.cfg.DeliveryFeeCap) {
		fee = e.cfg.DeliveryFeeCap
	}
	return RoundMoney(fee)
}
