package handler

import (
	"context"

	"github.com/erp/posting/internal/application/ledger"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerQueries reads the stock ledger of a product
type LedgerQueries interface {
	ListProductLedger(ctx context.Context, scope shared.Scope, productID uuid.UUID, filter shared.Filter) (shared.Paginated[posting.LedgerEntryResponse], error)
}

// LedgerAuditor checks ledger consistency for a scope
type LedgerAuditor interface {
	Audit(ctx context.Context, scope shared.Scope) (*ledger.Report, error)
}

// LedgerHandler serves the stock ledger reads
type LedgerHandler struct {
	BaseHandler
	queries LedgerQueries
	auditor LedgerAuditor
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(queries LedgerQueries, auditor LedgerAuditor) *LedgerHandler {
	return &LedgerHandler{queries: queries, auditor: auditor}
}

// RegisterRoutes registers the ledger routes on rg
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products/:id/ledger", h.ProductLedger)
	rg.GET("/ledger/audit", h.Audit)
}

// ProductLedger lists a product's ledger entries in entry number order.
//
// GET /api/v1/products/:id/ledger
func (h *LedgerHandler) ProductLedger(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.bindList(c, "asc")
	if !ok {
		return
	}

	page, err := h.queries.ListProductLedger(c.Request.Context(), scope, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Audit compares cached product stock with ledger sums and checks entry numbering.
//
// GET /api/v1/ledger/audit
func (h *LedgerHandler) Audit(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	report, err := h.auditor.Audit(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
