package testutil

import (
	"testing"
	"time"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/partner"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AllModels lists every persistence model, in creation order
func AllModels() []any {
	return []any{
		&models.UnitModel{},
		&models.LocationModel{},
		&models.CustomerModel{},
		&models.SupplierModel{},
		&models.ProductModel{},
		&models.NoSeriesModel{},
		&models.NoSeriesLineModel{},
		&models.SequenceCounterModel{},
		&models.DocumentHeaderModel{},
		&models.DocumentLineModel{},
		&models.DocumentPaymentModel{},
		&models.StockHistoryEntryModel{},
		&models.OutboxEntryModel{},
	}
}

// NewSQLiteDB opens an in-memory SQLite database with the full schema.
// A single connection is used so every query sees the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(AllModels()...))
	for _, stmt := range uniqueIndexes {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// uniqueIndexes mirror the unique constraints of the SQL migrations
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX uq_document_headers_reference ON document_headers (tenant_id, company_id, kind, reference_no)`,
	`CREATE UNIQUE INDEX uq_document_lines_line_no ON document_lines (header_id, line_no)`,
	`CREATE UNIQUE INDEX uq_stock_history_entries_entry_no ON stock_history_entries (tenant_id, company_id, entry_no)`,
	`CREATE UNIQUE INDEX uq_no_series_code ON no_series (tenant_id, company_id, code)`,
}

// Fixture seeds the master data a posting needs into one scope
type Fixture struct {
	DB         *gorm.DB
	Scope      shared.Scope
	UnitID     uuid.UUID
	LocationID uuid.UUID
	CustomerID uuid.UUID
	SupplierID uuid.UUID
}

// NewFixture creates a scope with a unit, a warehouse, a customer without a credit limit,
// a supplier and the ADJ, PUR and SO number series
func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{DB: db, Scope: shared.NewScope(uuid.New(), uuid.New())}

	unit, err := catalog.NewUnit(f.Scope, "PCS", "Pieces")
	require.NoError(t, err)
	require.NoError(t, db.Create(models.UnitModelFromDomain(unit)).Error)
	f.UnitID = unit.ID

	location, err := partner.NewLocation(f.Scope, "WH-01", "Main warehouse", partner.LocationKindWarehouse)
	require.NoError(t, err)
	require.NoError(t, db.Create(models.LocationModelFromDomain(location)).Error)
	f.LocationID = location.ID

	customer, err := partner.NewCustomer(f.Scope, "C-001", "Walk-in customer")
	require.NoError(t, err)
	require.NoError(t, db.Create(models.CustomerModelFromDomain(customer)).Error)
	f.CustomerID = customer.ID

	supplier, err := partner.NewSupplier(f.Scope, "S-001", "Default supplier")
	require.NoError(t, err)
	require.NoError(t, db.Create(models.SupplierModelFromDomain(supplier)).Error)
	f.SupplierID = supplier.ID

	for _, code := range []string{"ADJ", "PUR", "SO"} {
		f.AddSeries(t, code, code+"-00001", code+"-99999")
	}
	return f
}

// AddSeries creates a series with a single open line valid since 2000-01-01
func (f *Fixture) AddSeries(t *testing.T, code, startingNo, endingNo string) *numbering.NoSeries {
	t.Helper()

	series, err := numbering.NewNoSeries(f.Scope, code, code+" documents")
	require.NoError(t, err)
	_, err = series.AddLine(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), startingNo, endingNo, 1)
	require.NoError(t, err)

	model := models.NoSeriesModelFromDomain(series)
	require.NoError(t, f.DB.Omit("Lines").Create(model).Error)
	for i := range model.Lines {
		require.NoError(t, f.DB.Create(&model.Lines[i]).Error)
	}
	return series
}

// ProductSpec describes a product to seed
type ProductSpec struct {
	Code     string
	Price    decimal.Decimal
	Cost     decimal.Decimal
	StockQty decimal.Decimal
	AlertQty *decimal.Decimal
}

// AddProduct creates a product in the fixture scope and returns it
func (f *Fixture) AddProduct(t *testing.T, opts ProductSpec) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(f.Scope, opts.Code, opts.Code+"-SKU", "Product "+opts.Code, f.UnitID)
	require.NoError(t, err)
	require.NoError(t, product.SetPrices(opts.Price, opts.Cost))
	require.NoError(t, product.SetAlertQty(opts.AlertQty))
	product.StockQty = opts.StockQty
	require.NoError(t, f.DB.Create(models.ProductModelFromDomain(product)).Error)
	return product
}

// SetCustomerCredit bounds the fixture customer's credit
func (f *Fixture) SetCustomerCredit(t *testing.T, limit, balance decimal.Decimal) {
	t.Helper()

	require.NoError(t, f.DB.Model(&models.CustomerModel{}).
		Where("id = ?", f.CustomerID).
		Updates(map[string]any{
			"max_credit_limit": limit,
			"balance_amount":   balance,
		}).Error)
}

// StockQty reads the cached stock of a product
func (f *Fixture) StockQty(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()

	var model models.ProductModel
	require.NoError(t, f.DB.Where("id = ?", productID).First(&model).Error)
	return model.StockQty
}

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr returns a pointer to a parsed decimal literal
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}
