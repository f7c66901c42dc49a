package models

import (
	"time"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHistoryEntryModel is the persistence model for ledger entries. Rows are insert-only.
type StockHistoryEntryModel struct {
	BaseModel
	ScopeModel
	EntryNo        int64           `gorm:"not null"`
	EntryType      string          `gorm:"type:varchar(30);not null"`
	DocumentType   string          `gorm:"type:varchar(20);not null"`
	DocumentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentNo     string          `gorm:"type:varchar(50);not null"`
	DocumentLineNo int64           `gorm:"not null"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQty   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalesAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Open           bool            `gorm:"not null"`
	PostingDate    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockHistoryEntryModel) TableName() string {
	return "stock_history_entries"
}

// ToDomain converts the persistence model to a domain StockHistoryEntry
func (m *StockHistoryEntryModel) ToDomain() *inventory.StockHistoryEntry {
	return &inventory.StockHistoryEntry{
		BaseEntity:     m.BaseModel.ToDomain(),
		Scope:          m.ScopeModel.Scope(),
		EntryNo:        m.EntryNo,
		EntryType:      inventory.EntryType(m.EntryType),
		DocumentType:   m.DocumentType,
		DocumentID:     m.DocumentID,
		DocumentNo:     m.DocumentNo,
		DocumentLineNo: m.DocumentLineNo,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		Quantity:       m.Quantity,
		RemainingQty:   m.RemainingQty,
		CostAmount:     m.CostAmount,
		SalesAmount:    m.SalesAmount,
		Open:           m.Open,
		PostingDate:    m.PostingDate,
	}
}

// StockHistoryEntryModelFromDomain creates a persistence model from a domain StockHistoryEntry
func StockHistoryEntryModelFromDomain(e *inventory.StockHistoryEntry) *StockHistoryEntryModel {
	m := &StockHistoryEntryModel{
		ScopeModel:     ScopeModelFromDomain(e.Scope),
		EntryNo:        e.EntryNo,
		EntryType:      string(e.EntryType),
		DocumentType:   e.DocumentType,
		DocumentID:     e.DocumentID,
		DocumentNo:     e.DocumentNo,
		DocumentLineNo: e.DocumentLineNo,
		ProductID:      e.ProductID,
		LocationID:     e.LocationID,
		Quantity:       e.Quantity,
		RemainingQty:   e.RemainingQty,
		CostAmount:     e.CostAmount,
		SalesAmount:    e.SalesAmount,
		Open:           e.Open,
		PostingDate:    e.PostingDate,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
