package handler

import (
	"context"

	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/document"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentCommands creates and cancels documents
type DocumentCommands interface {
	CreateDocument(ctx context.Context, scope shared.Scope, kind document.Kind, req posting.CreateDocumentRequest) (*posting.PostingResult, error)
	CancelDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*document.Header, error)
}

// DocumentQueries reads posted documents
type DocumentQueries interface {
	GetDocument(ctx context.Context, scope shared.Scope, kind document.Kind, id uuid.UUID) (*posting.DocumentResponse, error)
	ListDocuments(ctx context.Context, scope shared.Scope, kind document.Kind, filter shared.Filter) (shared.Paginated[posting.DocumentResponse], error)
}

// DocumentHandler serves /documents/:kind
type DocumentHandler struct {
	BaseHandler
	commands DocumentCommands
	queries  DocumentQueries
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(commands DocumentCommands, queries DocumentQueries) *DocumentHandler {
	return &DocumentHandler{commands: commands, queries: queries}
}

// RegisterRoutes registers the document routes on rg
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/documents")
	g.POST("/:kind", h.Create)
	g.GET("/:kind", h.List)
	g.GET("/:kind/:id", h.Get)
	g.POST("/:kind/:id/cancel", h.Cancel)
}

func (h *DocumentHandler) kind(c *gin.Context) (document.Kind, bool) {
	kind, err := document.ParseKind(c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return kind, true
}

// Create posts a new document of the path kind. The response carries the ledger entries
// written and any low stock notifications raised.
//
// POST /api/v1/documents/:kind
func (h *DocumentHandler) Create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	var req posting.CreateDocumentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.commands.CreateDocument(c.Request.Context(), scope, kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, posting.ToPostingResponse(result))
}

// Get returns a document with its lines, payments and ledger entries.
//
// GET /api/v1/documents/:kind/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.queries.GetDocument(c.Request.Context(), scope, kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns document headers of the path kind, newest first.
//
// GET /api/v1/documents/:kind
func (h *DocumentHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	filter, ok := h.bindList(c, "desc")
	if !ok {
		return
	}

	page, err := h.queries.ListDocuments(c.Request.Context(), scope, kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Cancel marks a posted document cancelled. Its ledger entries stay in place.
//
// POST /api/v1/documents/:kind/:id/cancel
func (h *DocumentHandler) Cancel(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	kind, ok := h.kind(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	header, err := h.commands.CancelDocument(c.Request.Context(), scope, kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posting.ToDocumentResponse(header))
}
