package ports

import (
	"context"

	"brew-and-board/internal/core/domain"
)

// CatalogLookupInterface is the read-only view of the catalog collaborator.
// A nil vendor with a nil error means the vendor does not exist.
type CatalogLookupInterface interface {
	GetVendor(ctx context.Context, vendorID int) (*domain.Vendor, error)
	GetMenuItems(ctx context.Context, vendorID int) ([]domain.MenuItem, error)
}
