// Package middleware provides HTTP middleware for the posting API.
package middleware

import (
	"net/http"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/erp/posting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Scope headers and the gin key the resolved scope is stored under
const (
	TenantHeader  = "X-Tenant-ID"
	CompanyHeader = "X-Company-ID"
	ScopeKey      = "posting_scope"
)

// ScopeMiddleware resolves the tenant and company of a request from its headers.
// Both must be present and valid UUIDs. The scope is stored in the gin context and
// attached to the request context together with a scope-enriched logger.
func ScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := uuid.Parse(c.GetHeader(TenantHeader))
		if err != nil || tenantID == uuid.Nil {
			abortMissingScope(c, TenantHeader)
			return
		}
		companyID, err := uuid.Parse(c.GetHeader(CompanyHeader))
		if err != nil || companyID == uuid.Nil {
			abortMissingScope(c, CompanyHeader)
			return
		}

		scope := shared.NewScope(tenantID, companyID)
		ctx, _ := logger.WithScope(c.Request.Context(), logger.FromContext(c.Request.Context()), scope)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ScopeKey, scope)
		c.Next()
	}
}

// GetScope returns the scope resolved by ScopeMiddleware
func GetScope(c *gin.Context) (shared.Scope, bool) {
	v, ok := c.Get(ScopeKey)
	if !ok {
		return shared.Scope{}, false
	}
	scope, ok := v.(shared.Scope)
	return scope, ok
}

func abortMissingScope(c *gin.Context, header string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
		dto.ErrCodeMissingScope,
		header+" header must be a valid UUID",
		logger.RequestID(c.Request.Context()),
	))
}
