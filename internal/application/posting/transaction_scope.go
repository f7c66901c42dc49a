package posting

import (
	"context"

	"github.com/erp/posting/internal/domain/catalog"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/inventory"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/domain/partner"
	"github.com/erp/posting/internal/domain/shared"
)

// TransactionScope provides transactional access to the posting repositories.
// Everything done through the repositories handed to fn is committed or rolled back as one unit.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back and the error is returned,
	// translated to shared.ErrConcurrencyConflict when the database reports a serialization
	// or lock conflict.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	SeriesRepo() numbering.SeriesRepository
	CounterRepo() numbering.CounterRepository
	ProductRepo() catalog.ProductRepository
	UnitRepo() catalog.UnitRepository
	LocationRepo() partner.LocationRepository
	CustomerRepo() partner.CustomerRepository
	SupplierRepo() partner.SupplierRepository
	DocumentRepo() document.Repository
	StockHistoryRepo() inventory.StockHistoryRepository
	// Events records domain events in the transactional outbox
	Events() EventRecorder
}

// EventRecorder stores domain events so they are published only if the transaction commits
type EventRecorder interface {
	Record(ctx context.Context, events ...shared.DomainEvent) error
}
