package inventory

import (
	"context"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/shared"
)

// StockLedger appends ledger entries and keeps each product's cached stock in step with them.
// All collaborators must be bound to the same transaction.
type StockLedger struct {
	entries  StockHistoryRepository
	counters numbering.CounterRepository
	products catalog.ProductRepository
	guard    *InventoryGuard
}

// NewStockLedger creates a stock ledger over transaction-bound repositories
func NewStockLedger(
	entries StockHistoryRepository,
	counters numbering.CounterRepository,
	products catalog.ProductRepository,
) *StockLedger {
	return &StockLedger{
		entries:  entries,
		counters: counters,
		products: products,
		guard:    NewInventoryGuard(),
	}
}

// Post appends one entry for the movement and applies its signed delta to the product.
// The returned entry carries the product's stock right after the movement.
// product must have been loaded under a row lock in the current transaction; it is updated in place.
func (l *StockLedger) Post(ctx context.Context, scope shared.Scope, product *catalog.Product, m Movement) (*StockHistoryEntry, error) {
	if product.Scope != scope {
		return nil, shared.NewNotFoundError("product", product.ID)
	}
	if err := l.guard.Check(product, m.Quantity, m.EntryType); err != nil {
		return nil, err
	}

	entryNo, err := l.counters.Next(ctx, scope, numbering.CounterStockEntry)
	if err != nil {
		return nil, err
	}

	delta := m.EntryType.SignedQuantity(m.Quantity)
	remaining := product.StockQty.Add(delta)
	entry := newStockHistoryEntry(scope, entryNo, product.ID, m, remaining)

	if err := l.entries.Append(ctx, entry); err != nil {
		return nil, err
	}
	if err := l.products.UpdateStockQty(ctx, scope, product.ID, remaining); err != nil {
		return nil, err
	}
	product.ApplyStockDelta(delta)

	return entry, nil
}
