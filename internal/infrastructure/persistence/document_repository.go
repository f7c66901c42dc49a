package persistence

import (
	"context"
	"time"

	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// CreateHeader inserts the header row without lines or payments
func (r *GormDocumentRepository) CreateHeader(ctx context.Context, header *document.Header) error {
	return r.db.WithContext(ctx).
		Omit("Lines", "Payments").
		Create(models.DocumentHeaderModelFromDomain(header)).Error
}

// CreateLine inserts one line of an existing header
func (r *GormDocumentRepository) CreateLine(ctx context.Context, scope shared.Scope, line *document.Line) error {
	model := models.DocumentLineModelFromDomain(line)
	model.ScopeModel = models.ScopeModelFromDomain(scope)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreatePayments inserts the payments of an existing header
func (r *GormDocumentRepository) CreatePayments(ctx context.Context, scope shared.Scope, payments []*document.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	rows := make([]*models.DocumentPaymentModel, len(payments))
	for i, p := range payments {
		rows[i] = models.DocumentPaymentModelFromDomain(p)
		rows[i].ScopeModel = models.ScopeModelFromDomain(scope)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// UpdateTotals writes the aggregate fields of the header
func (r *GormDocumentRepository) UpdateTotals(ctx context.Context, header *document.Header) error {
	result := scoped(r.db.WithContext(ctx).Model(&models.DocumentHeaderModel{}), header.Scope).
		Where("id = ?", header.ID).
		Updates(map[string]any{
			"amount":      header.Amount,
			"discount":    header.Discount,
			"tax":         header.Tax,
			"total":       header.Total,
			"paid_amount": header.PaidAmount,
			"due_amount":  header.DueAmount,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("document", header.ID)
	}
	return nil
}

// UpdateStatus writes the status guarded by the optimistic version
func (r *GormDocumentRepository) UpdateStatus(ctx context.Context, header *document.Header) error {
	result := scoped(r.db.WithContext(ctx).Model(&models.DocumentHeaderModel{}), header.Scope).
		Where("id = ? AND version = ?", header.ID, header.Version-1).
		Updates(map[string]any{
			"status":     string(header.Status),
			"version":    header.Version,
			"updated_at": header.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID loads a header with its lines in line number order and its payments
func (r *GormDocumentRepository) FindByID(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*document.Header, error) {
	var model models.DocumentHeaderModel
	if err := scoped(r.db.WithContext(ctx), scope).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("kind = ? AND id = ?", string(kind), id).
		First(&model).Error; err != nil {
		return nil, notFound(err, "document", id)
	}
	return model.ToDomain(), nil
}

// List returns headers of a kind without lines
func (r *GormDocumentRepository) List(ctx context.Context, scope shared.Scope, kind document.Kind, filter shared.Filter) ([]*document.Header, int64, error) {
	query := scoped(r.db.WithContext(ctx).Model(&models.DocumentHeaderModel{}), scope).
		Where("kind = ?", string(kind))
	if filter.Search != "" {
		query = query.Where("reference_no LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := sortDirection(filter.OrderDir, descending)
	var rows []models.DocumentHeaderModel
	if err := query.
		Order(documentSort.column(filter.OrderBy) + " " + dir).
		Order("id " + dir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	headers := make([]*document.Header, len(rows))
	for i := range rows {
		headers[i] = rows[i].ToDomain()
	}
	return headers, total, nil
}

var _ document.Repository = (*GormDocumentRepository)(nil)
