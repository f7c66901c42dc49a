package inventory

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHistoryRepository persists ledger entries. It is append-only: there is no update or delete.
type StockHistoryRepository interface {
	// Append inserts a new entry
	Append(ctx context.Context, entry *StockHistoryEntry) error

	// FindByProduct returns entries of a product ordered by entry number
	FindByProduct(ctx context.Context, scope shared.Scope, productID uuid.UUID, filter shared.Filter) ([]*StockHistoryEntry, int64, error)

	// FindByDocument returns the entries written for a document ordered by entry number
	FindByDocument(ctx context.Context, scope shared.Scope, documentID uuid.UUID) ([]*StockHistoryEntry, error)

	// SumQuantityByProduct returns the sum of signed quantities for a product
	SumQuantityByProduct(ctx context.Context, scope shared.Scope, productID uuid.UUID) (decimal.Decimal, error)
}
