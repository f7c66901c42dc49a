package models

import (
	"github.com/erp/posting/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// LocationModel is the persistence model for warehouses and shops
type LocationModel struct {
	BaseModel
	ScopeModel
	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(200);not null"`
	Kind string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (LocationModel) TableName() string {
	return "locations"
}

// ToDomain converts the persistence model to a domain Location
func (m *LocationModel) ToDomain() *partner.Location {
	return &partner.Location{
		BaseEntity: m.BaseModel.ToDomain(),
		Scope:      m.ScopeModel.Scope(),
		Code:       m.Code,
		Name:       m.Name,
		Kind:       partner.LocationKind(m.Kind),
	}
}

// LocationModelFromDomain creates a persistence model from a domain Location
func LocationModelFromDomain(l *partner.Location) *LocationModel {
	m := &LocationModel{
		ScopeModel: ScopeModelFromDomain(l.Scope),
		Code:       l.Code,
		Name:       l.Name,
		Kind:       string(l.Kind),
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	BaseModel
	ScopeModel
	Code           string           `gorm:"type:varchar(50);not null"`
	Name           string           `gorm:"type:varchar(200);not null"`
	MaxCreditLimit *decimal.Decimal `gorm:"type:decimal(18,4)"`
	BalanceAmount  *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity:     m.BaseModel.ToDomain(),
		Scope:          m.ScopeModel.Scope(),
		Code:           m.Code,
		Name:           m.Name,
		MaxCreditLimit: m.MaxCreditLimit,
		BalanceAmount:  m.BalanceAmount,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		ScopeModel:     ScopeModelFromDomain(c.Scope),
		Code:           c.Code,
		Name:           c.Name,
		MaxCreditLimit: c.MaxCreditLimit,
		BalanceAmount:  c.BalanceAmount,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	BaseModel
	ScopeModel
	Code string `gorm:"type:varchar(50);not null"`
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseEntity: m.BaseModel.ToDomain(),
		Scope:      m.ScopeModel.Scope(),
		Code:       m.Code,
		Name:       m.Name,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		ScopeModel: ScopeModelFromDomain(s.Scope),
		Code:       s.Code,
		Name:       s.Name,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
