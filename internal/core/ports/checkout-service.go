package ports

import (
	"context"

	"brew-and-board/internal/core/domain"
)

type CheckoutServiceInterface interface {
	CreateCheckout(ctx context.Context, vendorID int, items []domain.OrderItemRequest, distanceMiles, gratuityPercent float64) (*domain.CheckoutCredential, error)
	Consume(token string) (*domain.CheckoutCredential, error)
	Invalidate(token string)
}
