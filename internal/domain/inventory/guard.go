package inventory

import (
	"fmt"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryGuard validates a proposed stock movement against the product's current stock
type InventoryGuard struct{}

// NewInventoryGuard creates an inventory guard
func NewInventoryGuard() *InventoryGuard {
	return &InventoryGuard{}
}

// Check rejects zero quantities on every entry type and, for decrementing types,
// quantities larger than the product's stock. Incrementing types are never blocked by stock level.
func (g *InventoryGuard) Check(product *catalog.Product, quantity decimal.Decimal, entryType EntryType) error {
	if !entryType.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidEntryType, fmt.Sprintf("unknown entry type %q", entryType))
	}
	if quantity.IsZero() {
		return shared.NewDomainError(shared.CodeZeroQuantity,
			fmt.Sprintf("quantity for product %s must not be zero", product.Code))
	}
	if quantity.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("quantity for product %s must be positive, direction comes from the entry type", product.Code))
	}
	if entryType.IsDecrement() && !entryType.AllowsNegativeStock() && product.StockQty.LessThan(quantity) {
		return shared.NewDomainError(shared.CodeInsufficientStock, fmt.Sprintf(
			"insufficient stock for product %s: available %s, requested %s",
			product.Code, product.StockQty.String(), quantity.String()))
	}
	return nil
}
