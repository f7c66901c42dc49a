package persistence

import (
	"context"

	"github.com/erp/posting/internal/domain/partner"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLocationRepository implements partner.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID within scope
func (r *GormLocationRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*partner.Location, error) {
	var model models.LocationModel
	if err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "location", id)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, location *partner.Location) error {
	return r.db.WithContext(ctx).Save(models.LocationModelFromDomain(location)).Error
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID within scope
func (r *GormCustomerRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "customer", id)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(models.CustomerModelFromDomain(customer)).Error
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID within scope
func (r *GormSupplierRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "supplier", id)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(supplier)).Error
}

var (
	_ partner.LocationRepository = (*GormLocationRepository)(nil)
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
)
