package ports

import (
	"context"

	"brew-and-board/internal/core/domain"
)

type OrderStoreInterface interface {
	GetOrder(ctx context.Context, orderID int) (*domain.PersistedOrder, error)
	ListRecentOrderIDs(ctx context.Context, limit int) ([]int, error)
}
