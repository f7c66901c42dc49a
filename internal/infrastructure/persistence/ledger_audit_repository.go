package persistence

import (
	"context"

	"github.com/erp/posting/internal/application/ledger"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/jmoiron/sqlx"
)

// SQLLedgerAuditRepository runs the ledger audit aggregates with sqlx.
// Queries are written with ? placeholders and rebound for the driver in use.
type SQLLedgerAuditRepository struct {
	db *sqlx.DB
}

// NewSQLLedgerAuditRepository creates a new SQLLedgerAuditRepository
func NewSQLLedgerAuditRepository(db *sqlx.DB) *SQLLedgerAuditRepository {
	return &SQLLedgerAuditRepository{db: db}
}

const stockMismatchSQL = `
SELECT p.id AS product_id,
       p.code AS product_code,
       p.stock_qty AS stock_qty,
       COALESCE(SUM(e.quantity), 0) AS ledger_qty
FROM products p
LEFT JOIN stock_history_entries e
       ON e.product_id = p.id AND e.tenant_id = p.tenant_id AND e.company_id = p.company_id
WHERE p.tenant_id = ? AND p.company_id = ?
GROUP BY p.id, p.code, p.stock_qty
HAVING p.stock_qty <> COALESCE(SUM(e.quantity), 0)
ORDER BY p.code`

const entryNumberStatsSQL = `
SELECT COUNT(*) AS entry_count,
       COUNT(DISTINCT entry_no) AS distinct_count,
       COALESCE(MIN(entry_no), 0) AS min_entry_no,
       COALESCE(MAX(entry_no), 0) AS max_entry_no
FROM stock_history_entries
WHERE tenant_id = ? AND company_id = ?`

// StockMismatches returns the products whose cached stock differs from their ledger sum
func (r *SQLLedgerAuditRepository) StockMismatches(ctx context.Context, scope shared.Scope) ([]ledger.StockMismatch, error) {
	mismatches := []ledger.StockMismatch{}
	if err := r.db.SelectContext(ctx, &mismatches, r.db.Rebind(stockMismatchSQL), scope.TenantID, scope.CompanyID); err != nil {
		return nil, err
	}
	return mismatches, nil
}

// EntryNumberStats summarizes the entry numbers used in the scope
func (r *SQLLedgerAuditRepository) EntryNumberStats(ctx context.Context, scope shared.Scope) (ledger.EntryNumberStats, error) {
	var stats ledger.EntryNumberStats
	if err := r.db.GetContext(ctx, &stats, r.db.Rebind(entryNumberStatsSQL), scope.TenantID, scope.CompanyID); err != nil {
		return ledger.EntryNumberStats{}, err
	}
	return stats, nil
}

var _ ledger.Auditor = (*SQLLedgerAuditRepository)(nil)
