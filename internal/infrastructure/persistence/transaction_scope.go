package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/partner"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that mean the unit of work lost a race and may be re-run
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// OutboxWriter stores domain events in the outbox table using the given transaction
type OutboxWriter interface {
	PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error
}

// GormTransactionScope implements posting.TransactionScope using GORM transactions.
// Every repository handed to the callback shares one database transaction.
type GormTransactionScope struct {
	db        *gorm.DB
	outbox    OutboxWriter
	isolation sql.IsolationLevel
}

// TransactionScopeOption configures a GormTransactionScope
type TransactionScopeOption func(*GormTransactionScope)

// WithIsolationLevel sets the isolation level of every transaction
func WithIsolationLevel(level sql.IsolationLevel) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.isolation = level
	}
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, outbox OutboxWriter, opts ...TransactionScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{
		db:        db,
		outbox:    outbox,
		isolation: sql.LevelDefault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseIsolationLevel maps a configured isolation name to its sql level
func ParseIsolationLevel(name string) sql.IsolationLevel {
	switch strings.ToLower(name) {
	case "read_committed":
		return sql.LevelReadCommitted
	case "repeatable_read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
// Storage conflicts are reported as shared.ErrConcurrencyConflict.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos posting.TransactionalRepositories) error) error {
	var opts []*sql.TxOptions
	if s.isolation != sql.LevelDefault {
		opts = append(opts, &sql.TxOptions{Isolation: s.isolation})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, outbox: s.outbox})
	}, opts...)
	return translateTxError(err)
}

// translateTxError leaves domain errors untouched and turns storage conflicts into retryable ones
func translateTxError(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if IsConflictError(err) {
		return shared.NewConflictError("transaction conflict", err)
	}
	return err
}

// IsConflictError reports whether err is a serialization failure, deadlock,
// lock timeout or unique violation raised by Postgres or SQLite
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgUniqueViolation:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

// SeriesRepo returns the number series repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SeriesRepo() numbering.SeriesRepository {
	return NewGormSeriesRepository(r.tx)
}

// CounterRepo returns the sequence counter repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CounterRepo() numbering.CounterRepository {
	return NewGormCounterRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// UnitRepo returns the unit repository scoped to the current transaction.
func (r *gormTransactionalRepositories) UnitRepo() catalog.UnitRepository {
	return NewGormUnitRepository(r.tx)
}

// LocationRepo returns the location repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LocationRepo() partner.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// SupplierRepo returns the supplier repository scoped to the current transaction.
func (r *gormTransactionalRepositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// DocumentRepo returns the document repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DocumentRepo() document.Repository {
	return NewGormDocumentRepository(r.tx)
}

// StockHistoryRepo returns the ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockHistoryRepo() inventory.StockHistoryRepository {
	return NewGormStockHistoryRepository(r.tx)
}

// Events returns a recorder that writes to the outbox in the current transaction.
func (r *gormTransactionalRepositories) Events() posting.EventRecorder {
	return &outboxRecorder{tx: r.tx, outbox: r.outbox}
}

type outboxRecorder struct {
	tx     *gorm.DB
	outbox OutboxWriter
}

func (r *outboxRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 || r.outbox == nil {
		return nil
	}
	return r.outbox.PublishWithTx(ctx, r.tx, events...)
}

// Ensure GormTransactionScope implements TransactionScope
var _ posting.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ posting.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
