package handler

import (
	"context"

	"github.com/erp/posting/internal/application/event"
	"github.com/erp/posting/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutboxAdmin inspects and re-drives the transactional outbox of a scope
type OutboxAdmin interface {
	ListDead(ctx context.Context, scope shared.Scope, filter event.DeadLetterFilter) (shared.Paginated[event.DeadLetter], error)
	Requeue(ctx context.Context, scope shared.Scope, id uuid.UUID) (*event.DeadLetter, error)
	Stats(ctx context.Context, scope shared.Scope) (*event.OutboxStats, error)
}

// OutboxHandler handles outbox management requests
type OutboxHandler struct {
	BaseHandler
	admin OutboxAdmin
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(admin OutboxAdmin) *OutboxHandler {
	return &OutboxHandler{admin: admin}
}

// RegisterRoutes registers the outbox routes on rg
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/outbox")
	g.GET("/stats", h.Stats)
	g.GET("/dead", h.DeadLetters)
	g.POST("/dead/:id/retry", h.Retry)
}

// Stats counts outbox entries per status.
//
// GET /api/v1/outbox/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	stats, err := h.admin.Stats(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// DeadLetters lists entries that exhausted their delivery attempts.
//
// GET /api/v1/outbox/dead
func (h *OutboxHandler) DeadLetters(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var filter event.DeadLetterFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	// omitempty lets an explicit page=0 through the binding
	if _, given := c.GetQuery("page"); given && filter.Page < 1 {
		h.BadRequest(c, "page must be at least 1")
		return
	}
	page, err := h.admin.ListDead(c.Request.Context(), scope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Retry puts a dead entry back into the pending queue.
//
// POST /api/v1/outbox/dead/:id/retry
func (h *OutboxHandler) Retry(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	entry, err := h.admin.Requeue(c.Request.Context(), scope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
