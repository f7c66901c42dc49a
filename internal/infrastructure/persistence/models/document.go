package models

import (
	"time"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentHeaderModel is the persistence model for adjustment, purchase and sales headers
type DocumentHeaderModel struct {
	ScopedAggregateModel
	Kind            string                 `gorm:"type:varchar(20);not null"`
	ReferenceNo     string                 `gorm:"type:varchar(50);not null"`
	SeriesCode      string                 `gorm:"type:varchar(20);not null"`
	DocumentDate    time.Time              `gorm:"not null"`
	Status          string                 `gorm:"type:varchar(20);not null"`
	Description     string                 `gorm:"type:text"`
	LocationID      uuid.UUID              `gorm:"type:uuid;not null"`
	PartyID         *uuid.UUID             `gorm:"type:uuid"`
	DiscountPercent decimal.Decimal        `gorm:"type:decimal(9,4);not null;default:0"`
	TaxPercent      decimal.Decimal        `gorm:"type:decimal(9,4);not null;default:0"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Discount        decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Tax             decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	DueAmount       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Lines           []DocumentLineModel    `gorm:"foreignKey:HeaderID;references:ID"`
	Payments        []DocumentPaymentModel `gorm:"foreignKey:HeaderID;references:ID"`
}

// TableName returns the table name for GORM
func (DocumentHeaderModel) TableName() string {
	return "document_headers"
}

// ToDomain converts the persistence model to a domain Header with any loaded lines and payments
func (m *DocumentHeaderModel) ToDomain() *document.Header {
	h := &document.Header{
		ScopedAggregateRoot: m.ToDomainScopedAggregateRoot(),
		Kind:                document.Kind(m.Kind),
		ReferenceNo:         m.ReferenceNo,
		SeriesCode:          m.SeriesCode,
		DocumentDate:        m.DocumentDate,
		Status:              document.Status(m.Status),
		Description:         m.Description,
		LocationID:          m.LocationID,
		PartyID:             m.PartyID,
		DiscountPercent:     m.DiscountPercent,
		TaxPercent:          m.TaxPercent,
		Amount:              m.Amount,
		Discount:            m.Discount,
		Tax:                 m.Tax,
		Total:               m.Total,
		PaidAmount:          m.PaidAmount,
		DueAmount:           m.DueAmount,
	}
	for i := range m.Lines {
		h.Lines = append(h.Lines, m.Lines[i].ToDomain())
	}
	for i := range m.Payments {
		h.Payments = append(h.Payments, m.Payments[i].ToDomain())
	}
	return h
}

// DocumentHeaderModelFromDomain creates a header model without its lines and payments
func DocumentHeaderModelFromDomain(h *document.Header) *DocumentHeaderModel {
	m := &DocumentHeaderModel{
		Kind:            string(h.Kind),
		ReferenceNo:     h.ReferenceNo,
		SeriesCode:      h.SeriesCode,
		DocumentDate:    h.DocumentDate,
		Status:          string(h.Status),
		Description:     h.Description,
		LocationID:      h.LocationID,
		PartyID:         h.PartyID,
		DiscountPercent: h.DiscountPercent,
		TaxPercent:      h.TaxPercent,
		Amount:          h.Amount,
		Discount:        h.Discount,
		Tax:             h.Tax,
		Total:           h.Total,
		PaidAmount:      h.PaidAmount,
		DueAmount:       h.DueAmount,
	}
	m.FromDomainScopedAggregateRoot(h.ScopedAggregateRoot)
	return m
}

// DocumentLineModel is the persistence model for a document line.
// The product code, sku and name are a snapshot taken at posting time.
type DocumentLineModel struct {
	BaseModel
	ScopeModel
	HeaderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int64           `gorm:"not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode     string          `gorm:"type:varchar(50);not null"`
	ProductSKU      string          `gorm:"column:product_sku;type:varchar(100)"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	UnitID          uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null"`
	EntryType       string          `gorm:"type:varchar(30);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LedgerEntryNo   int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain Line
func (m *DocumentLineModel) ToDomain() *document.Line {
	return &document.Line{
		BaseEntity: m.BaseModel.ToDomain(),
		HeaderID:   m.HeaderID,
		Scope:      m.ScopeModel.Scope(),
		LineNo:     m.LineNo,
		Product: catalog.ProductSnapshot{
			ProductID: m.ProductID,
			Code:      m.ProductCode,
			SKU:       m.ProductSKU,
			Name:      m.ProductName,
		},
		UnitID:          m.UnitID,
		LocationID:      m.LocationID,
		EntryType:       inventory.EntryType(m.EntryType),
		Quantity:        m.Quantity,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		TaxPercent:      m.TaxPercent,
		DiscountAmount:  m.DiscountAmount,
		TaxAmount:       m.TaxAmount,
		LineAmount:      m.LineAmount,
		LedgerEntryNo:   m.LedgerEntryNo,
	}
}

// DocumentLineModelFromDomain creates a persistence model from a domain Line
func DocumentLineModelFromDomain(l *document.Line) *DocumentLineModel {
	m := &DocumentLineModel{
		ScopeModel:      ScopeModelFromDomain(l.Scope),
		HeaderID:        l.HeaderID,
		LineNo:          l.LineNo,
		ProductID:       l.Product.ProductID,
		ProductCode:     l.Product.Code,
		ProductSKU:      l.Product.SKU,
		ProductName:     l.Product.Name,
		UnitID:          l.UnitID,
		LocationID:      l.LocationID,
		EntryType:       string(l.EntryType),
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.DiscountPercent,
		TaxPercent:      l.TaxPercent,
		DiscountAmount:  l.DiscountAmount,
		TaxAmount:       l.TaxAmount,
		LineAmount:      l.LineAmount,
		LedgerEntryNo:   l.LedgerEntryNo,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// DocumentPaymentModel is the persistence model for a payment attached to a document
type DocumentPaymentModel struct {
	BaseModel
	ScopeModel
	HeaderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method    string          `gorm:"type:varchar(30)"`
	Reference string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (DocumentPaymentModel) TableName() string {
	return "document_payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *DocumentPaymentModel) ToDomain() *document.Payment {
	return &document.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		HeaderID:   m.HeaderID,
		Scope:      m.ScopeModel.Scope(),
		Amount:     m.Amount,
		Method:     m.Method,
		Reference:  m.Reference,
	}
}

// DocumentPaymentModelFromDomain creates a persistence model from a domain Payment
func DocumentPaymentModelFromDomain(p *document.Payment) *DocumentPaymentModel {
	m := &DocumentPaymentModel{
		ScopeModel: ScopeModelFromDomain(p.Scope),
		HeaderID:   p.HeaderID,
		Amount:     p.Amount,
		Method:     p.Method,
		Reference:  p.Reference,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
