package numbering

import (
	"context"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// Counter names for scoped sequences that are not human-readable document numbers
const (
	CounterStockEntry = "STOCK_ENTRY"
	counterLinePrefix = "LINE:"
)

// LineCounterName returns the counter name used for line numbers of a document kind
func LineCounterName(kind string) string {
	return counterLinePrefix + kind
}

// SeriesRepository defines persistence for number series.
// Every method takes the scope explicitly.
type SeriesRepository interface {
	// FindByCode returns the series with its lines, or shared.ErrNotFound
	FindByCode(ctx context.Context, scope shared.Scope, code string) (*NoSeries, error)
	// FindLinesForUpdate returns the open lines of the series covering at and
	// holds a row lock on each until the surrounding transaction ends
	FindLinesForUpdate(ctx context.Context, scope shared.Scope, seriesID uuid.UUID, at time.Time) ([]*NoSeriesLine, error)
	// Save creates or replaces a series and its lines
	Save(ctx context.Context, series *NoSeries) error
	// SaveLine writes back the cursor of a single line
	SaveLine(ctx context.Context, scope shared.Scope, line *NoSeriesLine) error
}

// CounterRepository allocates gapless integer sequences per scope and name
type CounterRepository interface {
	// Next locks the counter row, increments it and returns the new value.
	// The increment becomes visible only when the surrounding transaction commits.
	Next(ctx context.Context, scope shared.Scope, name string) (int64, error)
	// Current returns the last allocated value without locking, zero when unused
	Current(ctx context.Context, scope shared.Scope, name string) (int64, error)
}
