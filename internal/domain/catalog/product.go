package catalog

import (
	"strings"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. StockQty is a cached projection of the stock ledger
// and is only changed by posting documents.
type Product struct {
	shared.ScopedAggregateRoot
	Code     string
	SKU      string
	Name     string
	UnitID   uuid.UUID
	Price    decimal.Decimal // selling price
	Cost     decimal.Decimal // purchase cost
	StockQty decimal.Decimal
	AlertQty *decimal.Decimal // nil disables low-stock alerts
}

// NewProduct creates a product with zero stock
func NewProduct(scope shared.Scope, code, sku, name string, unitID uuid.UUID) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Product name cannot be empty")
	}
	return &Product{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(scope),
		Code:                strings.ToUpper(code),
		SKU:                 sku,
		Name:                name,
		UnitID:              unitID,
		Price:               decimal.Zero,
		Cost:                decimal.Zero,
		StockQty:            decimal.Zero,
	}, nil
}

// SetPrices sets selling price and purchase cost
func (p *Product) SetPrices(price, cost decimal.Decimal) error {
	if price.IsNegative() || cost.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Prices cannot be negative")
	}
	p.Price = price
	p.Cost = cost
	p.Touch()
	return nil
}

// SetAlertQty sets or clears the low-stock threshold
func (p *Product) SetAlertQty(qty *decimal.Decimal) error {
	if qty != nil && qty.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Alert quantity cannot be negative")
	}
	p.AlertQty = qty
	p.Touch()
	return nil
}

// ApplyStockDelta moves the cached stock quantity by a signed delta
func (p *Product) ApplyStockDelta(delta decimal.Decimal) {
	p.StockQty = p.StockQty.Add(delta)
	p.Touch()
}

// Snapshot returns the descriptive fields frozen onto document lines
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Code:      p.Code,
		SKU:       p.SKU,
		Name:      p.Name,
	}
}

// ProductSnapshot is a denormalized copy of product identity kept for historical accuracy
type ProductSnapshot struct {
	ProductID uuid.UUID
	Code      string
	SKU       string
	Name      string
}
