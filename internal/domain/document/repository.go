package document

import (
	"context"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists documents. Headers are inserted before their lines,
// and totals are written once the lines are in place.
type Repository interface {
	// CreateHeader inserts the header row
	CreateHeader(ctx context.Context, header *Header) error

	// CreateLine inserts one line of an existing header
	CreateLine(ctx context.Context, scope shared.Scope, line *Line) error

	// CreatePayments inserts the payments of an existing header
	CreatePayments(ctx context.Context, scope shared.Scope, payments []*Payment) error

	// UpdateTotals writes the aggregate fields of the header
	UpdateTotals(ctx context.Context, header *Header) error

	// UpdateStatus writes the status if the stored version is header.Version-1,
	// otherwise returns shared.ErrConcurrencyConflict
	UpdateStatus(ctx context.Context, header *Header) error

	// FindByID loads a header with its lines (in line number order) and payments
	FindByID(ctx context.Context, scope shared.Scope, kind Kind, id uuid.UUID) (*Header, error)

	// List returns headers of a kind, newest first, without lines
	List(ctx context.Context, scope shared.Scope, kind Kind, filter shared.Filter) ([]*Header, int64, error)
}
