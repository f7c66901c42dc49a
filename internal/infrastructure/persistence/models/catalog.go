package models

import (
	"github.com/erp/posting/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitModel is the persistence model for units of measure
type UnitModel struct {
	BaseModel
	ScopeModel
	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (UnitModel) TableName() string {
	return "units"
}

// ToDomain converts the persistence model to a domain Unit
func (m *UnitModel) ToDomain() *catalog.Unit {
	return &catalog.Unit{
		BaseEntity: m.BaseModel.ToDomain(),
		Scope:      m.ScopeModel.Scope(),
		Code:       m.Code,
		Name:       m.Name,
	}
}

// UnitModelFromDomain creates a persistence model from a domain Unit
func UnitModelFromDomain(u *catalog.Unit) *UnitModel {
	m := &UnitModel{
		ScopeModel: ScopeModelFromDomain(u.Scope),
		Code:       u.Code,
		Name:       u.Name,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// ProductModel is the persistence model for the Product aggregate root
type ProductModel struct {
	ScopedAggregateModel
	Code     string           `gorm:"type:varchar(50);not null"`
	SKU      string           `gorm:"column:sku;type:varchar(100)"`
	Name     string           `gorm:"type:varchar(200);not null"`
	UnitID   uuid.UUID        `gorm:"type:uuid;not null"`
	Price    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Cost     decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	StockQty decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	AlertQty *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ScopedAggregateRoot: m.ToDomainScopedAggregateRoot(),
		Code:                m.Code,
		SKU:                 m.SKU,
		Name:                m.Name,
		UnitID:              m.UnitID,
		Price:               m.Price,
		Cost:                m.Cost,
		StockQty:            m.StockQty,
		AlertQty:            m.AlertQty,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainScopedAggregateRoot(p.ScopedAggregateRoot)
	m.Code = p.Code
	m.SKU = p.SKU
	m.Name = p.Name
	m.UnitID = p.UnitID
	m.Price = p.Price
	m.Cost = p.Cost
	m.StockQty = p.StockQty
	m.AlertQty = p.AlertQty
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

