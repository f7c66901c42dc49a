package partner

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Location, error)
	Save(ctx context.Context, location *Location) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Customer, error)
	Save(ctx context.Context, customer *Customer) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, scope shared.Scope, id uuid.UUID) (*Supplier, error)
	Save(ctx context.Context, supplier *Supplier) error
}
