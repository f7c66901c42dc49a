package catalog

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID within scope
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Product, error)

	// FindByIDsForUpdate loads the products and holds a row lock on each.
	// Rows are locked in ascending id order. Missing ids are absent from the result.
	FindByIDsForUpdate(ctx context.Context, scope shared.Scope, ids []uuid.UUID) ([]*Product, error)

	// UpdateStockQty writes the cached stock quantity of a product
	UpdateStockQty(ctx context.Context, scope shared.Scope, id uuid.UUID, qty decimal.Decimal) error

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	// FindByID finds a unit by its ID within scope
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Unit, error)

	// Save creates or updates a unit
	Save(ctx context.Context, unit *Unit) error
}
