package persistence

import (
	"context"
	"time"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID within scope
func (r *GormProductRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	return model.ToDomain(), nil
}

// FindByIDsForUpdate loads the products with SELECT ... FOR UPDATE, ordered by id
// so that concurrent postings acquire the row locks in the same order
func (r *GormProductRepository) FindByIDsForUpdate(ctx context.Context, scope shared.Scope, ids []uuid.UUID) ([]*catalog.Product, error) {
	if len(ids) == 0 {
		return []*catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]*catalog.Product, len(rows))
	for i := range rows {
		products[i] = rows[i].ToDomain()
	}
	return products, nil
}

// UpdateStockQty writes the cached stock quantity of a product
func (r *GormProductRepository) UpdateStockQty(ctx context.Context, scope shared.Scope, id uuid.UUID, qty decimal.Decimal) error {
	result := scoped(r.db.WithContext(ctx).Model(&models.ProductModel{}), scope).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_qty":  qty,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("product", id)
	}
	return nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// GormUnitRepository implements catalog.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID within scope
func (r *GormUnitRepository) FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*catalog.Unit, error) {
	var model models.UnitModel
	if err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, notFound(err, "unit", id)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	return r.db.WithContext(ctx).Save(models.UnitModelFromDomain(unit)).Error
}

var (
	_ catalog.ProductRepository = (*GormProductRepository)(nil)
	_ catalog.UnitRepository    = (*GormUnitRepository)(nil)
)
