package inventory

import (
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHistoryEntry is an immutable ledger row recording one signed stock movement
// and the product's stock level right after it. Corrections are new entries, never edits.
type StockHistoryEntry struct {
	shared.BaseEntity
	Scope          shared.Scope
	EntryNo        int64
	EntryType      EntryType
	DocumentType   string
	DocumentID     uuid.UUID
	DocumentNo     string
	DocumentLineNo int64
	ProductID      uuid.UUID
	LocationID     uuid.UUID
	Quantity       decimal.Decimal // signed
	RemainingQty   decimal.Decimal
	CostAmount     decimal.Decimal
	SalesAmount    decimal.Decimal
	Open           bool
	PostingDate    time.Time
}

// Movement describes a stock movement to be posted to the ledger
type Movement struct {
	EntryType      EntryType
	Quantity       decimal.Decimal // positive magnitude
	DocumentType   string
	DocumentID     uuid.UUID
	DocumentNo     string
	DocumentLineNo int64
	LocationID     uuid.UUID
	PostingDate    time.Time
	CostAmount     decimal.Decimal
	SalesAmount    decimal.Decimal
}

func newStockHistoryEntry(scope shared.Scope, entryNo int64, productID uuid.UUID, m Movement, remaining decimal.Decimal) *StockHistoryEntry {
	postingDate := m.PostingDate
	if postingDate.IsZero() {
		postingDate = time.Now()
	}
	return &StockHistoryEntry{
		BaseEntity:     shared.NewBaseEntity(),
		Scope:          scope,
		EntryNo:        entryNo,
		EntryType:      m.EntryType,
		DocumentType:   m.DocumentType,
		DocumentID:     m.DocumentID,
		DocumentNo:     m.DocumentNo,
		DocumentLineNo: m.DocumentLineNo,
		ProductID:      productID,
		LocationID:     m.LocationID,
		Quantity:       m.EntryType.SignedQuantity(m.Quantity),
		RemainingQty:   remaining,
		CostAmount:     m.CostAmount,
		SalesAmount:    m.SalesAmount,
		Open:           !m.EntryType.IsDecrement(),
		PostingDate:    postingDate,
	}
}
