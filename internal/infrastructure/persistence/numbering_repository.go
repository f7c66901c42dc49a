package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSeriesRepository implements numbering.SeriesRepository using GORM
type GormSeriesRepository struct {
	db *gorm.DB
}

// NewGormSeriesRepository creates a new GormSeriesRepository
func NewGormSeriesRepository(db *gorm.DB) *GormSeriesRepository {
	return &GormSeriesRepository{db: db}
}

// FindByCode returns the series with all of its lines
func (r *GormSeriesRepository) FindByCode(ctx context.Context, scope shared.Scope, code string) (*numbering.NoSeries, error) {
	var model models.NoSeriesModel
	if err := scoped(r.db.WithContext(ctx), scope).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("starting_date ASC, id ASC")
		}).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		return nil, notFound(err, "number series", code)
	}
	return model.ToDomain(), nil
}

// FindLinesForUpdate locks every open line of the series and returns those covering at
func (r *GormSeriesRepository) FindLinesForUpdate(ctx context.Context, scope shared.Scope, seriesID uuid.UUID, at time.Time) ([]*numbering.NoSeriesLine, error) {
	var rows []models.NoSeriesLineModel
	if err := scoped(r.db.WithContext(ctx), scope).
		Clauses(forUpdate).
		Where("series_id = ? AND open = ?", seriesID, true).
		Order("starting_date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]*numbering.NoSeriesLine, 0, len(rows))
	for i := range rows {
		line := rows[i].ToDomain()
		if line.CoversDate(at) {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Save creates or replaces a series and its lines
func (r *GormSeriesRepository) Save(ctx context.Context, series *numbering.NoSeries) error {
	model := models.NoSeriesModelFromDomain(series)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(model).Error; err != nil {
			return err
		}
		for i := range model.Lines {
			if err := tx.Save(&model.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveLine writes back the cursor of a single line
func (r *GormSeriesRepository) SaveLine(ctx context.Context, scope shared.Scope, line *numbering.NoSeriesLine) error {
	result := scoped(r.db.WithContext(ctx).Model(&models.NoSeriesLineModel{}), scope).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"last_no_used":   line.LastNoUsed,
			"last_date_used": line.LastDateUsed,
			"open":           line.Open,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("number series line", line.ID)
	}
	return nil
}

// GormCounterRepository implements numbering.CounterRepository on the sequence_counters table
type GormCounterRepository struct {
	db *gorm.DB
}

// NewGormCounterRepository creates a new GormCounterRepository
func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

const nextCounterSQL = `INSERT INTO sequence_counters (tenant_id, company_id, name, value, updated_at)
VALUES (?, ?, ?, 1, ?)
ON CONFLICT (tenant_id, company_id, name)
DO UPDATE SET value = sequence_counters.value + 1, updated_at = excluded.updated_at
RETURNING value`

// Next increments the counter with a single upsert. The upsert holds the row lock
// until the surrounding transaction ends, so concurrent callers serialize on it.
func (r *GormCounterRepository) Next(ctx context.Context, scope shared.Scope, name string) (int64, error) {
	var value int64
	if err := r.db.WithContext(ctx).
		Raw(nextCounterSQL, scope.TenantID, scope.CompanyID, name, time.Now()).
		Scan(&value).Error; err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, errors.New("sequence counter upsert returned no value")
	}
	return value, nil
}

// Current returns the last allocated value, zero when the counter was never used
func (r *GormCounterRepository) Current(ctx context.Context, scope shared.Scope, name string) (int64, error) {
	var model models.SequenceCounterModel
	err := scoped(r.db.WithContext(ctx), scope).Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.Value, nil
}

var (
	_ numbering.SeriesRepository  = (*GormSeriesRepository)(nil)
	_ numbering.CounterRepository = (*GormCounterRepository)(nil)
)
