package ledger

import (
	"context"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockMismatch is a product whose cached stock differs from the sum of its ledger entries
type StockMismatch struct {
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductCode string          `json:"product_code" db:"product_code"`
	StockQty    decimal.Decimal `json:"stock_qty" db:"stock_qty"`
	LedgerQty   decimal.Decimal `json:"ledger_qty" db:"ledger_qty"`
}

// EntryNumberStats summarizes the entry number sequence of one scope
type EntryNumberStats struct {
	Count    int64 `json:"count" db:"entry_count"`
	Distinct int64 `json:"distinct" db:"distinct_count"`
	MinNo    int64 `json:"min_entry_no" db:"min_entry_no"`
	MaxNo    int64 `json:"max_entry_no" db:"max_entry_no"`
}

// Auditor runs the aggregate queries behind an audit
type Auditor interface {
	StockMismatches(ctx context.Context, scope shared.Scope) ([]StockMismatch, error)
	EntryNumberStats(ctx context.Context, scope shared.Scope) (EntryNumberStats, error)
}

// Report is the result of a ledger audit
type Report struct {
	TenantID      uuid.UUID       `json:"tenant_id"`
	CompanyID     uuid.UUID       `json:"company_id"`
	CheckedAt     time.Time       `json:"checked_at"`
	EntryCount    int64           `json:"entry_count"`
	Mismatches    []StockMismatch `json:"mismatches"`
	DuplicateNos  int64           `json:"duplicate_entry_nos"`
	MissingNos    int64           `json:"missing_entry_nos"`
	LastCounterNo int64           `json:"last_counter_no"`
	Consistent    bool            `json:"consistent"`
}

// CounterReader reads the last allocated value of a named counter
type CounterReader interface {
	Current(ctx context.Context, scope shared.Scope, name string) (int64, error)
}

// AuditService checks that the stock ledger and the cached product stock agree
type AuditService struct {
	auditor  Auditor
	counters CounterReader
	counter  string
	logger   *zap.Logger
}

// NewAuditService creates a new AuditService. counterName is the counter entry numbers are drawn from.
func NewAuditService(auditor Auditor, counters CounterReader, counterName string, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{auditor: auditor, counters: counters, counter: counterName, logger: logger}
}

// Audit compares every product's stock with its ledger sum and checks that entry numbers run 1..N without gaps
func (s *AuditService) Audit(ctx context.Context, scope shared.Scope) (*Report, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	mismatches, err := s.auditor.StockMismatches(ctx, scope)
	if err != nil {
		return nil, err
	}
	stats, err := s.auditor.EntryNumberStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	last, err := s.counters.Current(ctx, scope, s.counter)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TenantID:      scope.TenantID,
		CompanyID:     scope.CompanyID,
		CheckedAt:     time.Now(),
		EntryCount:    stats.Count,
		Mismatches:    mismatches,
		DuplicateNos:  stats.Count - stats.Distinct,
		LastCounterNo: last,
	}
	if report.Mismatches == nil {
		report.Mismatches = []StockMismatch{}
	}
	if stats.Distinct > 0 {
		report.MissingNos = stats.MaxNo - stats.Distinct
	}
	report.Consistent = len(mismatches) == 0 &&
		report.DuplicateNos == 0 &&
		report.MissingNos == 0 &&
		stats.MaxNo == last

	if !report.Consistent {
		s.logger.Warn("Stock ledger inconsistent",
			zap.String("scope", scope.String()),
			zap.Int("mismatches", len(mismatches)),
			zap.Int64("duplicates", report.DuplicateNos),
			zap.Int64("missing", report.MissingNos),
			zap.Int64("max_entry_no", stats.MaxNo),
			zap.Int64("counter", last),
		)
	}
	return report, nil
}
