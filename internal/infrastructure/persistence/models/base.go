package models

import (
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ScopeModel holds the tenant and company columns every table carries
type ScopeModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index:,composite:scope"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:,composite:scope"`
}

// Scope returns the domain scope
func (m ScopeModel) Scope() shared.Scope {
	return shared.NewScope(m.TenantID, m.CompanyID)
}

// ScopeModelFromDomain converts a domain scope
func ScopeModelFromDomain(s shared.Scope) ScopeModel {
	return ScopeModel{TenantID: s.TenantID, CompanyID: s.CompanyID}
}

// ScopedAggregateModel provides common persistence fields for scoped aggregate roots.
// Version is used for optimistic locking.
type ScopedAggregateModel struct {
	BaseModel
	ScopeModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainScopedAggregateRoot populates ScopedAggregateModel from a domain ScopedAggregateRoot
func (m *ScopedAggregateModel) FromDomainScopedAggregateRoot(a shared.ScopedAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.ScopeModel = ScopeModelFromDomain(a.Scope)
	m.Version = a.Version
}

// ToDomainScopedAggregateRoot builds the domain ScopedAggregateRoot
func (m *ScopedAggregateModel) ToDomainScopedAggregateRoot() shared.ScopedAggregateRoot {
	return shared.ScopedAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Scope:      m.ScopeModel.Scope(),
		Version:    m.Version,
	}
}
