package persistence

import (
	"context"

	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockHistoryRepository implements inventory.StockHistoryRepository using GORM.
// It only ever inserts and reads.
type GormStockHistoryRepository struct {
	db *gorm.DB
}

// NewGormStockHistoryRepository creates a new GormStockHistoryRepository
func NewGormStockHistoryRepository(db *gorm.DB) *GormStockHistoryRepository {
	return &GormStockHistoryRepository{db: db}
}

// Append inserts a new entry
func (r *GormStockHistoryRepository) Append(ctx context.Context, entry *inventory.StockHistoryEntry) error {
	return r.db.WithContext(ctx).Create(models.StockHistoryEntryModelFromDomain(entry)).Error
}

// FindByProduct returns a page of a product's entries, oldest entry number first unless
// the filter asks for desc
func (r *GormStockHistoryRepository) FindByProduct(ctx context.Context, scope shared.Scope, productID uuid.UUID, filter shared.Filter) ([]*inventory.StockHistoryEntry, int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.StockHistoryEntryModel{}), scope).
		Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockHistoryEntryModel
	if err := query.
		Order("entry_no " + sortDirection(filter.OrderDir, ascending)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toStockHistoryEntries(rows), total, nil
}

// FindByDocument returns the entries written for a document ordered by entry number
func (r *GormStockHistoryRepository) FindByDocument(ctx context.Context, scope shared.Scope, documentID uuid.UUID) ([]*inventory.StockHistoryEntry, error) {
	var rows []models.StockHistoryEntryModel
	if err := scoped(r.db.WithContext(ctx), scope).
		Where("document_id = ?", documentID).
		Order("entry_no ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toStockHistoryEntries(rows), nil
}

// SumQuantityByProduct returns the sum of signed quantities for a product
func (r *GormStockHistoryRepository) SumQuantityByProduct(ctx context.Context, scope shared.Scope, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := scoped(r.db.WithContext(ctx).Model(&models.StockHistoryEntryModel{}), scope).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func toStockHistoryEntries(rows []models.StockHistoryEntryModel) []*inventory.StockHistoryEntry {
	entries := make([]*inventory.StockHistoryEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries
}

var _ inventory.StockHistoryRepository = (*GormStockHistoryRepository)(nil)
