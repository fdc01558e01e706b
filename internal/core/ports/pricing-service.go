package ports

import (
	"context"

	"brew-and-board/internal/core/domain"
)

type PricingServiceInterface interface {
	ValidateAndPrice(ctx context.Context, vendorID int, items []domain.OrderItemRequest, distanceMiles, gratuityPercent float64) (domain.OrderPricing, error)
}
